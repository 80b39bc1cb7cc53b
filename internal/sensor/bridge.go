package sensor

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/patrickmn/go-cache"

	"github.com/healthport/kiosk/internal/logger"
)

const bridgeModule = "sensor-bridge"

type storedReading struct {
	value string
	err   string
}

// Bridge serves sensor readings over HTTP. A request starts a background
// fetch from the device; the result waits in the readings cache until it is
// polled once.
type Bridge struct {
	device   Device
	readings *cache.Cache
	log      logger.ILogger
	testing  bool

	// take serialises poll get-and-clear.
	take sync.Mutex

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewBridge creates a bridge over device. In testing mode polls answer with
// the dummy values straight away.
func NewBridge(device Device, log logger.ILogger, testing bool) *Bridge {
	if log == nil {
		log = logger.Nop{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Bridge{
		device:   device,
		readings: cache.New(5*time.Minute, 10*time.Minute),
		log:      log,
		testing:  testing,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Routes returns the bridge's HTTP handler.
func (b *Bridge) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(b.cors)

	r.Get("/poll/{sensor}", b.handlePoll)
	r.Get("/{sensor}", b.handleRequest)

	return r
}

// Close stops in-flight fetches and waits for them to return.
func (b *Bridge) Close() {
	b.cancel()
	b.wg.Wait()
}

func (b *Bridge) handleRequest(w http.ResponseWriter, r *http.Request) {
	sensor := chi.URLParam(r, "sensor")
	dummy, ok := DummyValues[sensor]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Unknown sensor"})
		return
	}

	b.wg.Add(1)
	go b.fetch(sensor)

	writeJSON(w, http.StatusOK, Reading{Sensor: sensor, Value: &dummy, Status: StatusFetching})
}

func (b *Bridge) handlePoll(w http.ResponseWriter, r *http.Request) {
	sensor := chi.URLParam(r, "sensor")
	dummy, ok := DummyValues[sensor]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Unknown sensor"})
		return
	}

	if b.testing {
		writeJSON(w, http.StatusOK, Reading{Sensor: sensor, Value: &dummy, Status: StatusReady})
		return
	}

	b.take.Lock()
	x, found := b.readings.Get(sensor)
	if found {
		b.readings.Delete(sensor)
	}
	b.take.Unlock()

	if !found {
		writeJSON(w, http.StatusOK, Reading{Sensor: sensor, Status: StatusWaiting})
		return
	}

	stored := x.(storedReading)
	if stored.err != "" {
		writeJSON(w, http.StatusOK, Reading{Sensor: sensor, Status: StatusFailed, Error: stored.err})
		return
	}
	value := stored.value
	writeJSON(w, http.StatusOK, Reading{Sensor: sensor, Value: &value, Status: StatusReady})
}

func (b *Bridge) fetch(sensor string) {
	defer b.wg.Done()

	value, err := b.device.Fetch(b.ctx, sensor)
	if err != nil {
		if b.ctx.Err() != nil {
			return
		}
		b.log.Warn(bridgeModule, "sensor fetch failed", map[string]interface{}{"sensor": sensor, "error": err.Error()})
		b.readings.Set(sensor, storedReading{err: err.Error()}, cache.DefaultExpiration)
		return
	}

	b.log.Info(bridgeModule, "sensor reading stored", map[string]interface{}{"sensor": sensor, "value": value})
	b.readings.Set(sensor, storedReading{value: value}, cache.DefaultExpiration)
}

func (b *Bridge) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
