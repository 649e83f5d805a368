package rest

import (
	"encoding/json"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/rs/cors"

	"request-tracker/core"
)

type Handler struct {
	service   *core.Service
	log       *slog.Logger
	directory core.Directory
	maxUpload int64
}

func NewHandler(service *core.Service, log *slog.Logger, directory core.Directory, maxUpload int64) http.Handler {
	h := &Handler{
		service:   service,
		log:       log,
		directory: directory,
		maxUpload: maxUpload,
	}

	router := mux.NewRouter()
	router.HandleFunc("/api", h.Health).Methods("GET")
	router.HandleFunc("/api/requests", h.ListRequests).Methods("GET")
	router.HandleFunc("/api/requests", h.CreateRequest).Methods("POST")
	router.HandleFunc("/api/requests/{id}", h.UpdateRequest).Methods("PUT")
	router.HandleFunc("/api/requests/{id}", h.DeleteRequest).Methods("DELETE")
	router.HandleFunc("/api/upload", h.UploadEvaluatorFile).Methods("POST")
	router.HandleFunc("/api/requester/upload", h.UploadRequesterFile).Methods("POST")
	router.HandleFunc("/api/download/{filename}", h.DownloadFile).Methods("GET")
	router.HandleFunc("/api/teamMembers", h.ListMembers).Methods("GET")
	router.HandleFunc("/api/teamMembers/stats", h.TeamStats).Methods("GET")
	router.HandleFunc("/api/teamMembers/{id}", h.GetMember).Methods("GET")
	router.HandleFunc("/api/uploadProfile", h.UploadProfileImage).Methods("POST")

	c := cors.New(cors.Options{
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE"},
		AllowedHeaders: []string{"Content-Type", "X-User-Email"},
	})

	return c.Handler(h.withIdentity(router))
}

// withIdentity classifies the authenticated email forwarded by the identity
// provider and stashes the role in the request context. Authentication is
// external, so an absent header just means an anonymous call.
func (h *Handler) withIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if email := r.Header.Get("X-User-Email"); email != "" {
			role := h.directory.Classify(email)
			h.log.Debug("classified user", "email", email, "role", string(role.Kind))
			r = r.WithContext(core.WithRole(r.Context(), role))
		}
		next.ServeHTTP(w, r)
	})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrRequestNotFound):
		writeError(w, http.StatusNotFound, "REQUEST_NOT_FOUND", err.Error())
	case errors.Is(err, core.ErrMemberNotFound):
		writeError(w, http.StatusNotFound, "MEMBER_NOT_FOUND", err.Error())
	case errors.Is(err, core.ErrFileNotFound):
		writeError(w, http.StatusNotFound, "FILE_NOT_FOUND", err.Error())
	case errors.Is(err, core.ErrEvaluatorFileRequired):
		writeError(w, http.StatusConflict, "FILE_REQUIRED", err.Error())
	case errors.Is(err, core.ErrRequestCompleted):
		writeError(w, http.StatusConflict, "REQUEST_COMPLETED", err.Error())
	case errors.Is(err, core.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, "INVALID_STATUS", err.Error())
	case errors.Is(err, core.ErrUnsupportedFileType):
		writeError(w, http.StatusUnsupportedMediaType, "UNSUPPORTED_TYPE", err.Error())
	default:
		h.log.Error("internal error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "API is running"})
}

func (h *Handler) ListRequests(w http.ResponseWriter, r *http.Request) {
	assignedTo := r.URL.Query().Get("assignedTo")

	requests, err := h.service.ListRequests(r.Context(), assignedTo)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toRequestResponses(requests))
}

func (h *Handler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var req CreateRequestRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}

	created, err := h.service.CreateRequest(r.Context(), core.Request{
		Email:                   req.Email,
		Name:                    req.Name,
		TypeOfClient:            req.TypeOfClient,
		Classification:          req.Classification,
		ProjectTitle:            req.ProjectTitle,
		PhilgepsReferenceNumber: req.PhilgepsReferenceNumber,
		ProductType:             req.ProductType,
		RequestType:             req.RequestType,
		DateNeeded:              req.DateNeeded,
		SpecialInstructions:     req.SpecialInstructions,
		AssignedTo:              req.AssignedTo,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toRequestResponse(created))
}

func (h *Handler) UpdateRequest(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req UpdateRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}

	update := core.RequestUpdate{
		AssignedTo:          req.AssignedTo,
		CancellationReason:  req.CancellationReason,
		DateNeeded:          req.DateNeeded,
		SpecialInstructions: req.SpecialInstructions,
	}
	if req.Status != nil {
		status := core.Status(*req.Status)
		update.Status = &status
	}

	updated, err := h.service.UpdateRequest(r.Context(), id, update)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toRequestResponse(updated))
}

func (h *Handler) DeleteRequest(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.service.DeleteRequest(r.Context(), id); err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Request deleted"})
}

// uploadForm pulls the file part and request id out of a multipart body,
// enforcing the payload cap.
func (h *Handler) uploadForm(w http.ResponseWriter, r *http.Request, fileField, idField string) (io.ReadCloser, string, string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)

	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "Uploaded file exceeds the size limit")
			return nil, "", "", false
		}
		writeError(w, http.StatusBadRequest, "INVALID_FORM", "Invalid multipart form")
		return nil, "", "", false
	}

	file, header, err := r.FormFile(fileField)
	if err != nil {
		writeError(w, http.StatusBadRequest, "MISSING_FILE", fileField+" form field is required")
		return nil, "", "", false
	}

	id := r.FormValue(idField)
	if id == "" {
		file.Close()
		writeError(w, http.StatusBadRequest, "MISSING_FIELD", idField+" form field is required")
		return nil, "", "", false
	}

	return file, header.Filename, id, true
}

func (h *Handler) UploadEvaluatorFile(w http.ResponseWriter, r *http.Request) {
	file, fileName, requestID, ok := h.uploadForm(w, r, "file", "requestId")
	if !ok {
		return
	}
	defer file.Close()

	updated, err := h.service.AttachEvaluatorFile(r.Context(), requestID, fileName, file)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toRequestResponse(updated))
}

func (h *Handler) UploadRequesterFile(w http.ResponseWriter, r *http.Request) {
	file, fileName, requestID, ok := h.uploadForm(w, r, "file", "requestId")
	if !ok {
		return
	}
	defer file.Close()

	updated, err := h.service.AttachRequesterFile(r.Context(), requestID, fileName, file)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toRequestResponse(updated))
}

func (h *Handler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["filename"]

	f, err := h.service.OpenFile(name)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	defer f.Close()

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)

	if _, err := io.Copy(w, f); err != nil {
		h.log.Error("streaming file failed", "name", name, "error", err)
	}
}

func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.service.Members(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	responses := make([]MemberResponse, 0, len(members))
	for _, member := range members {
		responses = append(responses, MemberResponse{
			ID:              member.ID,
			Name:            member.Name,
			ProfileImageURL: member.ProfileImageURL,
		})
	}

	writeJSON(w, http.StatusOK, responses)
}

func (h *Handler) GetMember(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	stats, err := h.service.Member(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toMemberStatsResponse(stats))
}

func (h *Handler) TeamStats(w http.ResponseWriter, r *http.Request) {
	evaluatorID := r.URL.Query().Get("evaluatorId")

	stats, err := h.service.TeamStats(r.Context(), evaluatorID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	responses := make([]MemberStatsResponse, 0, len(stats))
	for _, member := range stats {
		responses = append(responses, toMemberStatsResponse(member))
	}

	writeJSON(w, http.StatusOK, responses)
}

func (h *Handler) UploadProfileImage(w http.ResponseWriter, r *http.Request) {
	file, fileName, evaluatorID, ok := h.uploadForm(w, r, "profileImage", "evaluatorId")
	if !ok {
		return
	}
	defer file.Close()

	member, err := h.service.UpsertProfileImage(r.Context(), evaluatorID, fileName, file)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, MemberResponse{
		ID:              member.ID,
		Name:            member.Name,
		ProfileImageURL: member.ProfileImageURL,
	})
}
