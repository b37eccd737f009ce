package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/inkbrush/cartoonize/internal/engine"
	"github.com/inkbrush/cartoonize/internal/imaging"
	"github.com/inkbrush/cartoonize/internal/style"
)

const (
	jpegQuality   = 95
	maxBatchFiles = 10
)

var allowedExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".bmp": true, ".webp": true,
}

type styleInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

type batchItemReport struct {
	Filename       string  `json:"filename"`
	OutputFilename string  `json:"output_filename,omitempty"`
	Status         string  `json:"status"`
	Message        string  `json:"message,omitempty"`
	Style          string  `json:"style,omitempty"`
	FallbackUsed   bool    `json:"fallback_used"`
	ElapsedSeconds float64 `json:"elapsed_seconds,omitempty"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"message": "cartoonize API",
		"status":  "running",
		"endpoints": map[string]string{
			"convert": "/api/convert",
			"styles":  "/api/styles",
			"health":  "/health",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"neural":    s.dispatcher.Capability(),
	})
}

func (s *Server) handleStyles(w http.ResponseWriter, r *http.Request) {
	specs := s.dispatcher.Styles()
	styles := make([]styleInfo, 0, len(specs))
	for _, spec := range specs {
		styles = append(styles, styleInfo{
			ID:          spec.ID,
			Name:        spec.Name,
			Category:    string(spec.Category),
			Description: spec.Description,
		})
	}
	respondJSON(w, http.StatusOK, map[string]any{"styles": styles})
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	src, err := decodeUpload(file, header)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	styleID := r.FormValue("style")
	if styleID == "" {
		styleID = "classic"
	}

	opts, err := parseOptions(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	release := s.acquireWorker()
	result, err := s.dispatcher.Convert(src, styleID, opts)
	release()
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	data, err := imaging.EncodeJPEG(result.Image, jpegQuality)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=cartoon_%s", filepath.Base(header.Filename)))
	w.Header().Set("X-Processing-Style", result.StyleUsed)
	w.Header().Set("X-Elapsed-Seconds", strconv.FormatFloat(result.Elapsed.Seconds(), 'f', 3, 64))
	w.Header().Set("X-Fallback-Used", strconv.FormatBool(result.FallbackUsed))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleBatchConvert(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes*maxBatchFiles)
	if err := r.ParseMultipartForm(s.maxUploadBytes * maxBatchFiles); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err))
		return
	}

	if r.MultipartForm == nil || len(r.MultipartForm.File["files"]) == 0 {
		respondError(w, http.StatusBadRequest, "missing files field")
		return
	}
	headers := r.MultipartForm.File["files"]
	if len(headers) > maxBatchFiles {
		respondError(w, http.StatusBadRequest,
			fmt.Sprintf("maximum %d files allowed in batch processing", maxBatchFiles))
		return
	}

	styleID := r.FormValue("style")
	if styleID == "" {
		styleID = "classic"
	}
	opts, err := parseOptions(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Decode failures are per-item, like conversion failures: one broken
	// upload never aborts the rest of the batch.
	reports := make([]batchItemReport, 0, len(headers))
	items := make([]engine.BatchItem, 0, len(headers))
	for _, h := range headers {
		src, err := decodeUploadHeader(h)
		if err != nil {
			reports = append(reports, batchItemReport{
				Filename: h.Filename,
				Status:   "error",
				Message:  err.Error(),
			})
			continue
		}
		items = append(items, engine.BatchItem{Name: h.Filename, Image: src})
	}

	release := s.acquireWorker()
	report := s.dispatcher.ConvertBatch(items, styleID, opts)
	release()

	for _, item := range report.Items {
		if item.Err != nil {
			reports = append(reports, batchItemReport{
				Filename: item.Name,
				Status:   "error",
				Message:  item.Err.Error(),
			})
			continue
		}
		data, err := imaging.EncodeJPEG(item.Result.Image, jpegQuality)
		if err == nil {
			var name string
			name, err = s.store.Save(data, "jpg")
			if err == nil {
				reports = append(reports, batchItemReport{
					Filename:       item.Name,
					OutputFilename: name,
					Status:         "success",
					Style:          item.Result.StyleUsed,
					FallbackUsed:   item.Result.FallbackUsed,
					ElapsedSeconds: item.Result.Elapsed.Seconds(),
				})
				continue
			}
		}
		reports = append(reports, batchItemReport{
			Filename: item.Name,
			Status:   "error",
			Message:  err.Error(),
		})
	}

	successful := 0
	for _, r := range reports {
		if r.Status == "success" {
			successful++
		}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"total":      len(headers),
		"successful": successful,
		"failed":     len(headers) - successful,
		"results":    reports,
	})
}

func (s *Server) handleCleanup(w http.ResponseWriter, r *http.Request) {
	maxAge := 24 * time.Hour
	if v := r.URL.Query().Get("max_age_hours"); v != "" {
		hours, err := strconv.Atoi(v)
		if err != nil || hours < 0 {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid max_age_hours: %q", v))
			return
		}
		maxAge = time.Duration(hours) * time.Hour
	}

	deleted, err := s.store.CleanupOlderThan(maxAge)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"deleted": deleted})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	outputs, err := s.store.Count()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"outputs":          outputs,
		"available_styles": len(s.dispatcher.Styles()),
		"server_time":      time.Now().Format(time.RFC3339),
	})
}

// parseOptions reads resize_output and the optional parameter overrides
// from the form.
func parseOptions(r *http.Request) (engine.Options, error) {
	opts := engine.Options{ResizeOutput: true}
	if v := r.FormValue("resize_output"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, fmt.Errorf("invalid resize_output: %q", v)
		}
		opts.ResizeOutput = b
	}

	overrides := &style.Overrides{}
	set := false

	intFields := map[string]**int{
		"color_clusters":     &overrides.ColorClusters,
		"bilateral_diameter": &overrides.BilateralDiameter,
		"median_kernel":      &overrides.MedianKernel,
		"edge_block_size":    &overrides.EdgeBlockSize,
		"edge_offset":        &overrides.EdgeOffset,
	}
	for field, dst := range intFields {
		if v := r.FormValue(field); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return opts, fmt.Errorf("invalid %s: %q", field, v)
			}
			*dst = &n
			set = true
		}
	}

	floatFields := map[string]**float64{
		"sigma_color": &overrides.SigmaColor,
		"sigma_space": &overrides.SigmaSpace,
	}
	for field, dst := range floatFields {
		if v := r.FormValue(field); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return opts, fmt.Errorf("invalid %s: %q", field, v)
			}
			*dst = &f
			set = true
		}
	}

	if set {
		opts.Overrides = overrides
	}
	return opts, nil
}

func decodeUpload(file multipart.File, header *multipart.FileHeader) (*imaging.Buffer, error) {
	if !allowedExtension(header.Filename) {
		return nil, fmt.Errorf("invalid file type %q: allowed are PNG, JPG, JPEG, GIF, BMP, WEBP",
			filepath.Ext(header.Filename))
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	return imaging.Decode(data)
}

func decodeUploadHeader(header *multipart.FileHeader) (*imaging.Buffer, error) {
	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()
	return decodeUpload(f, header)
}

func allowedExtension(filename string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// statusFor maps the engine's error taxonomy to HTTP status codes:
// validation failures are the client's fault, everything else is ours.
func statusFor(err error) int {
	switch {
	case errors.Is(err, engine.ErrInvalidInput),
		errors.Is(err, style.ErrUnsupportedStyle),
		errors.Is(err, style.ErrInvalidParameter):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
