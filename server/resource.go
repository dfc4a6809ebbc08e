package server

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"time"

	"github.com/google/pprof/profile"
	"github.com/shirou/gopsutil/process"
)

const MAX_PROFILE_SECONDS = 30

func writeJSON(w http.ResponseWriter, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(data)
	if err != nil {
		log.Printf("server: %v", err)
	}
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

// listResources reports the CPU and memory use of the daemon.
func (s *Server) listResources(w http.ResponseWriter, _ *http.Request) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	cpuPercent, err := proc.CPUPercent()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	memoryInfo, err := proc.MemoryInfo()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memoryInfo.RSS,
	})
}

// collectProfile samples the CPU for a number of seconds (default one) and
// returns the parsed profile.
func (s *Server) collectProfile(w http.ResponseWriter, r *http.Request) {
	seconds := 1
	if text := r.URL.Query().Get("seconds"); text != "" {
		var err error
		seconds, err = strconv.Atoi(text)
		if err != nil || seconds <= 0 || seconds > MAX_PROFILE_SECONDS {
			http.Error(w, f("invalid seconds %q", text), http.StatusBadRequest)
			return
		}
	}

	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	select {
	case <-time.After(time.Duration(seconds) * time.Second):
	case <-r.Context().Done():
	}

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, prof)
}
