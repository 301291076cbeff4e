package control

import (
	"encoding/json"
	"net/http"
	"time"
)

// DiagHandler serves the daemon's diagnostic HTTP surface: /healthz (the
// process is scheduling ticks), /readyz (the control loop has committed at
// least one state), and /debugz (a JSON snapshot of controller state).
type DiagHandler struct {
	controller *Controller
	startedAt  time.Time
}

// NewDiagHandler builds a DiagHandler bound to controller.
func NewDiagHandler(controller *Controller) *DiagHandler {
	return &DiagHandler{controller: controller, startedAt: time.Now()}
}

// Register mounts the three diagnostic routes on mux.
func (d *DiagHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", d.handleHealthz)
	mux.HandleFunc("/readyz", d.handleReadyz)
	mux.HandleFunc("/debugz", d.handleDebugz)
}

func (d *DiagHandler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (d *DiagHandler) handleReadyz(w http.ResponseWriter, r *http.Request) {
	state, _ := d.controller.CommittedState()
	if state == 0 {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("not ready: no state committed yet"))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ready"))
}

func (d *DiagHandler) handleDebugz(w http.ResponseWriter, r *http.Request) {
	state, since := d.controller.CommittedState()
	snapshot := map[string]any{
		"committed_state":  state.String(),
		"committed_since":  since.UTC().Format(time.RFC3339),
		"dwell_elapsed_s":  time.Since(since).Seconds(),
		"process_uptime_s": time.Since(d.startedAt).Seconds(),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(snapshot)
}
