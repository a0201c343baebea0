package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/objvault/drivefs/internal/drive"
	"github.com/objvault/drivefs/internal/errs"
	"github.com/objvault/drivefs/internal/logger"
)

type handlers struct {
	facade *drive.Facade
	log    *logger.Logger
}

type createFolderRequest struct {
	Name       string `json:"name"`
	ParentPath string `json:"parentPath"`
}

func (h *handlers) createFolder(w http.ResponseWriter, r *http.Request) {
	var req createFolderRequest
	if !decode(w, r, &req) {
		return
	}

	folder, err := h.facade.CreateFolder(r.Context(), chi.URLParam(r, "tenant"), req.Name, req.ParentPath)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond(w, http.StatusCreated, map[string]any{"folder": folder})
}

func (h *handlers) listFolder(w http.ResponseWriter, r *http.Request) {
	listing, err := h.facade.ListFolderContents(r.Context(), chi.URLParam(r, "tenant"), r.URL.Query().Get("path"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, listing)
}

type uploadRequest struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	FileSize    int64  `json:"fileSize"`
	DestPath    string `json:"destPath"`
}

func (h *handlers) uploadURL(w http.ResponseWriter, r *http.Request) {
	var req uploadRequest
	if !decode(w, r, &req) {
		return
	}

	grant, err := h.facade.GetUploadPresignedURL(r.Context(), chi.URLParam(r, "tenant"),
		req.FileName, req.ContentType, req.FileSize, req.DestPath)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{
		"url":           grant.URL,
		"key":           grant.Key,
		"expiresInSecs": int64(grant.ExpiresIn.Seconds()),
	})
}

func (h *handlers) downloadURL(w http.ResponseWriter, r *http.Request) {
	grant, err := h.facade.GetDownloadURL(r.Context(), chi.URLParam(r, "tenant"), r.URL.Query().Get("path"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{
		"url":           grant.URL,
		"expiresInSecs": int64(grant.ExpiresIn.Seconds()),
	})
}

func (h *handlers) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := drive.SearchOptions{MimeFilter: q.Get("mime")}
	if raw := q.Get("max"); raw != "" {
		max, err := strconv.Atoi(raw)
		if err != nil || max < 1 {
			h.fail(w, r, errs.New(errs.ErrKindValidation, "max must be a positive integer"))
			return
		}
		opts.MaxResults = max
	}

	result, err := h.facade.SearchFiles(r.Context(), chi.URLParam(r, "tenant"), q.Get("q"), opts)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, result)
}

func (h *handlers) remove(w http.ResponseWriter, r *http.Request) {
	err := h.facade.DeleteOrRenamePath(r.Context(), chi.URLParam(r, "tenant"), r.URL.Query().Get("path"), "")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type moveRequest struct {
	Path    string `json:"path"`
	NewPath string `json:"newPath"`
}

func (h *handlers) move(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if !decode(w, r, &req) {
		return
	}
	if req.NewPath == "" {
		h.fail(w, r, errs.New(errs.ErrKindValidation, "newPath must not be empty"))
		return
	}

	err := h.facade.DeleteOrRenamePath(r.Context(), chi.URLParam(r, "tenant"), req.Path, req.NewPath)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decode parses a JSON body, responding with a validation error on failure.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, errs.ErrKindValidation, "malformed JSON body")
		return false
	}
	return true
}
