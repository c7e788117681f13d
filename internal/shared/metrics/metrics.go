package metrics

import (
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Registry collects service counters and latency samples.
type Registry struct {
	mu sync.Mutex

	lettersGenerated int64
	lettersFailed    int64
	textExtractions  int64
	uploads          int64

	genDurations []float64
}

var defaultRegistry = &Registry{}

// Default returns the process-wide registry.
func Default() *Registry { return defaultRegistry }

// IncLettersGenerated records one successfully generated letter.
func (r *Registry) IncLettersGenerated() {
	r.mu.Lock()
	r.lettersGenerated++
	r.mu.Unlock()
}

// IncLettersFailed records one failed letter generation.
func (r *Registry) IncLettersFailed() {
	r.mu.Lock()
	r.lettersFailed++
	r.mu.Unlock()
}

// IncTextExtractions records one document text extraction.
func (r *Registry) IncTextExtractions() {
	r.mu.Lock()
	r.textExtractions++
	r.mu.Unlock()
}

// IncUploads records one document upload.
func (r *Registry) IncUploads() {
	r.mu.Lock()
	r.uploads++
	r.mu.Unlock()
}

// ObserveGeneration records the wall time of one batch generation.
func (r *Registry) ObserveGeneration(d time.Duration) {
	ms := float64(d.Microseconds()) / 1000.0
	r.mu.Lock()
	r.genDurations = append(r.genDurations, ms)
	if len(r.genDurations) > 10000 {
		r.genDurations = r.genDurations[len(r.genDurations)-10000:]
	}
	r.mu.Unlock()
}

// Handler renders the registry in Prometheus text exposition format.
func (r *Registry) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		r.mu.Lock()
		generated := r.lettersGenerated
		failed := r.lettersFailed
		extractions := r.textExtractions
		uploads := r.uploads
		durations := make([]float64, len(r.genDurations))
		copy(durations, r.genDurations)
		r.mu.Unlock()

		var p50, p95, p99 float64
		if len(durations) > 0 {
			sort.Float64s(durations)
			p50 = percentile(durations, 0.50)
			p95 = percentile(durations, 0.95)
			p99 = percentile(durations, 0.99)
		}

		body := fmt.Sprintf(`# HELP letters_generated_total Cover letters generated successfully.
# TYPE letters_generated_total counter
letters_generated_total %d
# HELP letters_failed_total Cover letter generations that failed.
# TYPE letters_failed_total counter
letters_failed_total %d
# HELP document_extractions_total Document text extractions performed.
# TYPE document_extractions_total counter
document_extractions_total %d
# HELP document_uploads_total Documents uploaded.
# TYPE document_uploads_total counter
document_uploads_total %d
# HELP generation_duration_ms Batch generation wall time in milliseconds.
# TYPE generation_duration_ms summary
generation_duration_ms{quantile="0.5"} %.3f
generation_duration_ms{quantile="0.95"} %.3f
generation_duration_ms{quantile="0.99"} %.3f
generation_duration_ms_count %d
`, generated, failed, extractions, uploads, p50, p95, p99, len(durations))

		c.Header("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		c.String(http.StatusOK, body)
	}
}

func percentile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(q * float64(len(sorted)-1))
	return sorted[idx]
}
