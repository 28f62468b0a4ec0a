// Package marketdata fetches daily OHLCV history from the Yahoo Finance
// chart API (unofficial, no API key needed).
package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"example.com/stock-pattern-scanner/internal/bar"
)

const defaultBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// userAgent mimics a browser; Yahoo rejects the default Go client string.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// FetchError reports a failed history fetch for one symbol.
type FetchError struct {
	Symbol    string
	Err       error
	Retryable bool
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s: %v", e.Symbol, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Config holds fetch settings.
type Config struct {
	BaseURL  string        // chart API endpoint; defaults to Yahoo Finance
	Range    string        // lookback range, e.g. "6mo"
	Interval string        // bar interval, e.g. "1d"
	Timeout  time.Duration // per-request timeout
	Workers  int           // concurrent fetches in FetchAll
}

// DefaultConfig returns the default fetch settings: six months of daily bars.
func DefaultConfig() Config {
	return Config{
		BaseURL:  defaultBaseURL,
		Range:    "6mo",
		Interval: "1d",
		Timeout:  30 * time.Second,
		Workers:  8,
	}
}

// Client fetches bar history over HTTP.
type Client struct {
	httpClient *http.Client
	config     Config
	logger     zerolog.Logger
}

// NewClient creates a market data client.
func NewClient(cfg Config, logger zerolog.Logger) *Client {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Range == "" {
		cfg.Range = def.Range
	}
	if cfg.Interval == "" {
		cfg.Interval = def.Interval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		config:     cfg,
		logger:     logger,
	}
}

// chartResponse mirrors the Yahoo Finance chart API payload.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol string `json:"symbol"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []float64 `json:"open"`
					High   []float64 `json:"high"`
					Low    []float64 `json:"low"`
					Close  []float64 `json:"close"`
					Volume []int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// History fetches the daily bar history for one symbol, oldest first.
func (c *Client) History(ctx context.Context, symbol string) ([]bar.Bar, error) {
	url := fmt.Sprintf("%s/%s?range=%s&interval=%s&includePrePost=false",
		c.config.BaseURL, symbol, c.config.Range, c.config.Interval)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Symbol: symbol, Err: err, Retryable: true}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &FetchError{Symbol: symbol, Err: fmt.Errorf("rate limited"), Retryable: true}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{Symbol: symbol, Err: fmt.Errorf("status %d", resp.StatusCode), Retryable: false}
	}

	var data chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if data.Chart.Error != nil {
		return nil, &FetchError{Symbol: symbol, Err: fmt.Errorf("%s", data.Chart.Error.Description), Retryable: false}
	}
	if len(data.Chart.Result) == 0 || len(data.Chart.Result[0].Timestamp) == 0 {
		return nil, &FetchError{Symbol: symbol, Err: fmt.Errorf("no data available"), Retryable: false}
	}

	result := data.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, &FetchError{Symbol: symbol, Err: fmt.Errorf("no quote data"), Retryable: false}
	}
	quotes := result.Indicators.Quote[0]

	bars := make([]bar.Bar, 0, len(result.Timestamp))
	for i := range result.Timestamp {
		// Yahoo pads halted sessions with nulls; skip incomplete rows
		if i >= len(quotes.Open) || i >= len(quotes.High) || i >= len(quotes.Low) || i >= len(quotes.Close) {
			continue
		}
		if quotes.Open[i] == 0 && quotes.High[i] == 0 && quotes.Low[i] == 0 && quotes.Close[i] == 0 {
			continue
		}

		var volume int64
		if i < len(quotes.Volume) {
			volume = quotes.Volume[i]
		}

		bars = append(bars, bar.Bar{
			Date:   time.Unix(result.Timestamp[i], 0).UTC(),
			Open:   quotes.Open[i],
			High:   quotes.High[i],
			Low:    quotes.Low[i],
			Close:  quotes.Close[i],
			Volume: volume,
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}

// FetchAll fetches history for every symbol concurrently. Failed symbols are
// logged and omitted from the result; progress, if non-nil, is called after
// each symbol completes.
func (c *Client) FetchAll(ctx context.Context, symbols []string, progress func(done, total int)) map[string][]bar.Bar {
	series := make(map[string][]bar.Bar, len(symbols))

	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		done int
	)
	jobs := make(chan string)

	workers := c.config.Workers
	if workers > len(symbols) {
		workers = len(symbols)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sym := range jobs {
				bars, err := c.History(ctx, sym)

				mu.Lock()
				if err != nil {
					c.logger.Warn().Err(err).Str("symbol", sym).Msg("fetch failed, skipping symbol")
				} else {
					series[sym] = bars
				}
				done++
				if progress != nil {
					progress(done, len(symbols))
				}
				mu.Unlock()
			}
		}()
	}

	for _, sym := range symbols {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return series
		case jobs <- sym:
		}
	}
	close(jobs)
	wg.Wait()

	return series
}
