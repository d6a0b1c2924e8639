package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/png"
	"io"
	"net/http"
	"strconv"

	"github.com/rook-computer/starlight/internal/state"
)

const maxRequestBody = 4 << 10

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

type hostResponse struct {
	Output        string `json:"output"`
	Mount         string `json:"mount"`
	ReducedMotion bool   `json:"reducedMotion"`
}

type configResponse struct {
	DPRMax       float64 `json:"dprMax"`
	Density      float64 `json:"density"`
	Drift        float64 `json:"drift"`
	Tone         string  `json:"tone"`
	Layer        string  `json:"layer"`
	FPS          float64 `json:"fps"`
	TwinkleScale float64 `json:"twinkleScale"`
	CountScale   float64 `json:"countScale"`
}

type effectResponse struct {
	Width           float64 `json:"width"`
	Height          float64 `json:"height"`
	DPR             float64 `json:"dpr"`
	Stars           int     `json:"stars"`
	Frames          int     `json:"frames"`
	SkippedPaused   int     `json:"skippedPaused"`
	SkippedThrottle int     `json:"skippedThrottle"`
	Draws           int     `json:"draws"`
	Culled          int     `json:"culled"`
}

type statusResponse struct {
	Phase  string         `json:"phase"`
	Error  string         `json:"error,omitempty"`
	Host   hostResponse   `json:"host"`
	Config configResponse `json:"config"`
	Effect effectResponse `json:"effect"`
}

// MaxResizeSide bounds /resize requests, in logical pixels per side.
const MaxResizeSide = 8192

type resizeRequest struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type visibilityRequest struct {
	Visible *bool `json:"visible"`
}

func apiV1Router(deps APIV1Deps) http.Handler {
	deps = deps.withDefaults()
	mux := http.NewServeMux()
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) { handleStatus(w, r, deps) })
	mux.HandleFunc("/config", func(w http.ResponseWriter, r *http.Request) { handleConfig(w, r, deps) })
	mux.HandleFunc("/frame.png", func(w http.ResponseWriter, r *http.Request) { handleFrame(w, r, deps) })
	mux.HandleFunc("/resize", func(w http.ResponseWriter, r *http.Request) { handleResize(w, r, deps) })
	mux.HandleFunc("/visibility", func(w http.ResponseWriter, r *http.Request) { handleVisibility(w, r, deps) })
	mux.HandleFunc("/dispose", func(w http.ResponseWriter, r *http.Request) { handleDispose(w, r, deps) })
	mux.HandleFunc("/qr.png", func(w http.ResponseWriter, r *http.Request) { handleQRCode(w, r, deps) })
	return mux
}

func toConfigResponse(cfg state.ConfigInfo) configResponse {
	return configResponse{
		DPRMax:       cfg.DPRMax,
		Density:      cfg.Density,
		Drift:        cfg.Drift,
		Tone:         cfg.Tone,
		Layer:        cfg.Layer,
		FPS:          cfg.FPS,
		TwinkleScale: cfg.TwinkleScale,
		CountScale:   cfg.CountScale,
	}
}

func handleStatus(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	snap := deps.Status.Snapshot()
	writeJSON(w, http.StatusOK, statusResponse{
		Phase: snap.Phase.String(),
		Error: snap.Err,
		Host: hostResponse{
			Output:        snap.Host.Output,
			Mount:         snap.Host.Mount,
			ReducedMotion: snap.Host.ReducedMotion,
		},
		Config: toConfigResponse(snap.Config),
		Effect: effectResponse{
			Width:           snap.Effect.Width,
			Height:          snap.Effect.Height,
			DPR:             snap.Effect.DPR,
			Stars:           snap.Effect.Stars,
			Frames:          snap.Effect.Frames,
			SkippedPaused:   snap.Effect.SkippedPaused,
			SkippedThrottle: snap.Effect.SkippedThrottle,
			Draws:           snap.Effect.Draws,
			Culled:          snap.Effect.Culled,
		},
	})
}

func handleConfig(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, toConfigResponse(deps.Status.Snapshot().Config))
}

func handleFrame(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	img := deps.Frames.Frame()
	if img == nil {
		writeAPIError(w, http.StatusServiceUnavailable, "no_frame", "no frame rendered yet")
		return
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		writeAPIError(w, http.StatusInternalServerError, "encode_failed", err.Error())
		return
	}
	writePNG(w, buf.Bytes())
}

func handleResize(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodPost {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	var req resizeRequest
	if err := decodeBody(r, &req); err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}
	if req.Width <= 0 || req.Height <= 0 {
		writeAPIError(w, http.StatusBadRequest, "invalid_size", "width and height must be positive")
		return
	}
	if req.Width > MaxResizeSide || req.Height > MaxResizeSide {
		writeAPIError(w, http.StatusBadRequest, "invalid_size", fmt.Sprintf("width and height must not exceed %d", MaxResizeSide))
		return
	}
	if err := deps.Resizer.Resize(req.Width, req.Height); err != nil {
		if err == errNotConfigured {
			writeAPIError(w, http.StatusNotImplemented, "not_implemented", "resize not supported by this output")
			return
		}
		writeAPIError(w, http.StatusInternalServerError, "resize_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func handleVisibility(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodPost {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	if deps.Visibility == nil {
		writeAPIError(w, http.StatusNotImplemented, "not_implemented", "visibility not configured")
		return
	}
	var req visibilityRequest
	if err := decodeBody(r, &req); err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}
	if req.Visible == nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_body", "visible is required")
		return
	}
	deps.Visibility.SetVisible(*req.Visible)
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func handleDispose(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodPost {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	if deps.DisposeFunc == nil {
		writeAPIError(w, http.StatusNotImplemented, "not_implemented", "dispose not configured")
		return
	}
	if err := deps.DisposeFunc(r.Context()); err != nil {
		writeAPIError(w, http.StatusInternalServerError, "dispose_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func handleQRCode(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	size := 0
	if raw := r.URL.Query().Get("size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeAPIError(w, http.StatusBadRequest, "invalid_size", "size must be a positive integer")
			return
		}
		size = parsed
	}
	payload := deps.PreviewURL
	if payload == "" {
		payload = "http://" + r.Host + "/"
	}
	img, err := GenerateQRCodeImage(payload, size)
	if err != nil {
		writeAPIError(w, http.StatusInternalServerError, "qr_failed", err.Error())
		return
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		writeAPIError(w, http.StatusInternalServerError, "encode_failed", err.Error())
		return
	}
	writePNG(w, buf.Bytes())
}

// decodeBody reads a small JSON body, rejecting unknown fields.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writePNG(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, apiError{Error: code, Message: message})
}
