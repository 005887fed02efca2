package server

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"resumelift/internal/ai"
	resumeliftErrors "resumelift/internal/errors"
	"resumelift/internal/extract"
	"resumelift/internal/observability"
	"resumelift/internal/types"

	"go.opentelemetry.io/otel/attribute"
)

const (
	tracerName = "resumelift.api"

	// multipartOverhead covers boundaries and part headers around the file
	multipartOverhead = 1 << 20
	multipartMemory   = 32 << 20
)

// createAnalyzeHandler serves POST /analyze
func (s *Server) createAnalyzeHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := om.Tracer(tracerName).Start(r.Context(), "api.analyze")
		defer span.End()

		var input types.AnalyzeResumeInput
		if err := parseJSONRequest(r, &input); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}
		if err := input.Validate(); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing resume text", "resumeText field is required", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.resume_length", len(input.ResumeText)),
			attribute.String("operation", "analyze"),
		)

		notes := &ai.RecordingNotifier{}
		result := s.Service.Analyze(ai.WithNotifier(ctx, notes), input)

		span.SetAttributes(
			attribute.String("result.source", string(result.Source)),
			attribute.Int("result.overall_score", result.Analysis.OverallScore),
		)

		writeJSON(w, http.StatusOK, AnalyzeResponse{
			Analysis:      result.Analysis,
			Source:        result.Source,
			Notifications: notes.Notifications(),
		})
	}
}

// createEnhanceHandler serves POST /enhance
func (s *Server) createEnhanceHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := om.Tracer(tracerName).Start(r.Context(), "api.enhance")
		defer span.End()

		var input types.EnhanceResumeInput
		if err := parseJSONRequest(r, &input); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}
		if err := input.Validate(); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid enhancement request",
				"originalResume is required and suggestions must not contain empty entries", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.resume_length", len(input.OriginalResume)),
			attribute.Int("request.suggestions", len(input.Suggestions)),
			attribute.String("operation", "enhance"),
		)

		notes := &ai.RecordingNotifier{}
		result, err := s.Service.Enhance(ai.WithNotifier(ctx, notes), input)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", string(resumeliftErrors.TypeOf(err))))
			loggerFromRequest(r, s.Logger).LogError(err, "Enhancement failed")
			writeAppError(w, err)
			return
		}

		span.SetAttributes(attribute.String("result.source", string(result.Source)))

		writeJSON(w, http.StatusOK, EnhanceResponse{
			EnhancedResume: result.EnhancedResume,
			Source:         result.Source,
			Notifications:  notes.Notifications(),
		})
	}
}

// createExtractHandler serves POST /api/extract. The document is read from
// the multipart field "file"; ?canonical=true adds the section-ordered text.
func (s *Server) createExtractHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := om.Tracer(tracerName).Start(r.Context(), "api.extract")
		defer span.End()

		logger := loggerFromRequest(r, s.Logger)

		canonical, err := s.canonicalParam(r)
		if err != nil {
			span.RecordError(err)
			writeErrorResponse(w, "Invalid query parameter", err.Error(), http.StatusBadRequest)
			return
		}

		if limit := s.Extractor.MaxSize(); limit > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverhead)
		}

		filename, data, err := readUploadedFile(r)
		if err != nil {
			span.RecordError(err)
			var maxBytesErr *http.MaxBytesError
			if stderrors.As(err, &maxBytesErr) {
				writeErrorResponse(w, resumeliftErrors.ErrCodeFileTooLarge,
					fmt.Sprintf("Upload exceeds the %d byte limit", s.Extractor.MaxSize()), http.StatusRequestEntityTooLarge)
				return
			}
			writeErrorResponse(w, "Invalid upload", err.Error(), http.StatusBadRequest)
			return
		}

		format := "unknown"
		if f, err := extract.DetectFormat(filename); err == nil {
			format = string(f)
		}
		span.SetAttributes(
			attribute.String("request.format", format),
			attribute.Int("request.bytes", len(data)),
			attribute.Bool("request.canonical", canonical),
		)

		result, err := s.Extractor.Extract(ctx, filename, data)
		om.GetMetrics().RecordExtraction(ctx, format, err == nil)
		if err != nil {
			span.RecordError(err)
			logger.LogError(err, "Extraction request failed", "filename", filename)
			writeAppError(w, err)
			return
		}

		out := types.ExtractResumeOutput{ExtractResult: result}
		if canonical {
			out.CanonicalText = extract.CanonicalText(result)
		}

		span.SetAttributes(attribute.Int("result.sections", len(result.Sections)))
		writeJSON(w, http.StatusOK, out)
	}
}

// canonicalParam reads ?canonical, defaulting to the extract configuration
func (s *Server) canonicalParam(r *http.Request) (bool, error) {
	raw := r.URL.Query().Get("canonical")
	if raw == "" {
		return s.AppConfig.Extract.Canonicalize, nil
	}
	canonical, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("canonical must be a boolean, got %q", raw)
	}
	return canonical, nil
}

// readUploadedFile returns the name and content of the "file" form field
func readUploadedFile(r *http.Request) (string, []byte, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return "", nil, fmt.Errorf("failed to parse multipart form: %w", err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return "", nil, fmt.Errorf("multipart field \"file\" is required: %w", err)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	return header.Filename, data, nil
}

// statusForError maps an application error onto an HTTP status
func statusForError(err error) int {
	switch resumeliftErrors.CodeOf(err) {
	case resumeliftErrors.ErrCodeFileTooLarge:
		return http.StatusRequestEntityTooLarge
	case resumeliftErrors.ErrCodeUnsupportedDocument:
		return http.StatusUnsupportedMediaType
	}

	switch resumeliftErrors.TypeOf(err) {
	case resumeliftErrors.ErrorTypeValidation, resumeliftErrors.ErrorTypeIO, resumeliftErrors.ErrorTypeParse:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeAppError writes err as {error: code, message}
func writeAppError(w http.ResponseWriter, err error) {
	code := resumeliftErrors.CodeOf(err)
	message := err.Error()

	var appErr *resumeliftErrors.AppError
	if stderrors.As(err, &appErr) {
		message = appErr.Message
	}
	if code == "" {
		code = "INTERNAL_ERROR"
	}

	writeErrorResponse(w, code, message, statusForError(err))
}

// writeJSON writes v with the given status
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}
