package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net"
	"net/http"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/llm-translate/internal/config"
	"github.com/nulzo/llm-translate/internal/gateway"
	"github.com/nulzo/llm-translate/internal/provider"
	"github.com/nulzo/llm-translate/internal/server"
	"github.com/nulzo/llm-translate/internal/store"
	"github.com/nulzo/llm-translate/internal/store/memory"
	vegeta "github.com/tsenart/vegeta/v12/lib"
	"go.uber.org/zap"
)

var generateResp = []byte(`{"model":"bench","response":" Bonjour ","done":true}`)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "Duration of the test")
	rate := flag.Int("rate", 50, "Requests per second")
	latency := flag.Duration("latency", 10*time.Millisecond, "Simulated provider latency")
	chaos := flag.Bool("chaos", false, "Simulate random client disconnections")
	flag.Parse()

	gin.SetMode(gin.ReleaseMode)

	mockURL, stopMock := startMockOllama(*latency)
	defer stopMock()

	appURL, stopApp := startRelay(mockURL)
	defer stopApp()

	done := make(chan struct{})
	go monitorResources(done)

	fmt.Printf("Running benchmark: %s duration, %d req/s against %s\n", *duration, *rate, appURL)

	body := []byte(`{"text":"Hello","target_language":"fr"}`)
	targeter := vegeta.NewStaticTargeter(vegeta.Target{
		Method: http.MethodPost,
		URL:    appURL + "/v1/translate",
		Body:   body,
		Header: http.Header{"Content-Type": []string{"application/json"}},
	})

	if *chaos {
		concurrency := *rate / 10
		if concurrency < 5 {
			concurrency = 5
		}
		if concurrency > 50 {
			concurrency = 50
		}
		go startChaosMonkey(appURL+"/v1/translate", concurrency, done)
	}

	attacker := vegeta.NewAttacker(vegeta.KeepAlive(true))
	var metrics vegeta.Metrics
	for res := range attacker.Attack(targeter, vegeta.Rate{Freq: *rate, Per: time.Second}, *duration, "translate") {
		metrics.Add(res)
	}
	metrics.Close()
	close(done)

	fmt.Println("--------------------------------------------------")
	fmt.Println("99th percentile: ", metrics.Latencies.P99)
	fmt.Println("Mean:            ", metrics.Latencies.Mean)
	fmt.Println("Max:             ", metrics.Latencies.Max)
	fmt.Printf("Success:         %.2f%%\n", metrics.Success*100)
	fmt.Printf("Throughput:      %.2f req/s\n", metrics.Throughput)
	fmt.Println("--------------------------------------------------")

	if len(metrics.Errors) > 0 {
		fmt.Println("Error Set (first 5 unique):")
		seen := make(map[string]bool)
		for _, msg := range metrics.Errors {
			if len(seen) == 5 {
				break
			}
			if !seen[msg] {
				fmt.Println(msg)
				seen[msg] = true
			}
		}
	}
}

// startRelay runs the relay in-process against the mock provider.
func startRelay(ollamaURL string) (string, func()) {
	cfg := &config.Config{
		Server:    config.ServerConfig{Env: "production"},
		RateLimit: config.RateLimitConfig{},
	}

	settings := memory.New()
	if err := settings.Save(context.Background(), &store.Settings{
		TargetLanguage: "ja",
		AutoTranslate:  true,
		Provider:       provider.Ollama,
		Credentials: provider.CredentialSet{
			provider.Ollama: {BaseURL: ollamaURL, Model: "bench"},
		},
	}); err != nil {
		log.Fatalf("Failed to seed settings: %v", err)
	}

	registry := gateway.BootstrapProviders(cfg, nil, zap.NewNop())
	svc := gateway.NewService(zap.NewNop(), registry)
	srv := server.New(cfg, zap.NewNop(), svc, settings, "bench")

	return serve(srv.Handler())
}

func startMockOllama(latency time.Duration) (string, func()) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/generate", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(latency):
		case <-r.Context().Done():
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(generateResp)
	})
	return serve(mux)
}

func serve(h http.Handler) (string, func()) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		log.Fatalf("Failed to listen: %v", err)
	}
	srv := &http.Server{Handler: h, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("server error: %v", err)
		}
	}()
	return "http://" + ln.Addr().String(), func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

func startChaosMonkey(url string, concurrency int, done chan struct{}) {
	fmt.Printf("Starting Chaos Monkey with %d concurrent disrupters (random disconnects 1-50ms)\n", concurrency)
	var wg sync.WaitGroup
	wg.Add(concurrency)

	for i := 0; i < concurrency; i++ {
		go func() {
			defer wg.Done()
			client := &http.Client{}
			payload := `{"text":"Chaos Request"}`

			for {
				select {
				case <-done:
					return
				default:
					timeout := time.Duration(rand.Intn(50)+1) * time.Millisecond

					ctx, cancel := context.WithTimeout(context.Background(), timeout)
					req, _ := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(payload))
					req.Header.Set("Content-Type", "application/json")

					resp, err := client.Do(req)
					if err == nil {
						resp.Body.Close()
					}
					cancel()

					time.Sleep(time.Duration(rand.Intn(50)) * time.Millisecond)
				}
			}
		}()
	}
	wg.Wait()
}

func monitorResources(done chan struct{}) {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	fmt.Println("\n--- Resource Usage ---")
	fmt.Printf("%-10s %-10s %-10s %-10s\n", "Time", "Heap(MB)", "Alloc(MB)", "Goroutines")

	var m runtime.MemStats
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			runtime.ReadMemStats(&m)
			fmt.Printf("%-10s %-10.2f %-10.2f %-10d\n",
				time.Now().Format("15:04:05"),
				float64(m.HeapInuse)/1024/1024,
				float64(m.Alloc)/1024/1024,
				runtime.NumGoroutine(),
			)
		}
	}
}
