/*
Package handler provides the HTTP handlers and routing setup for the chat relay server.

This file contains the file API handlers, the HTTP twin of the ftplist, ftpget,
and ftpUpload chat commands. They serve the same FileStore, so files uploaded
over either surface are visible on both.
*/
package handler

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"chatrelay/internal/app/store"
	"chatrelay/internal/pkg/errs"
	"chatrelay/internal/pkg/logx"
	"chatrelay/internal/pkg/req"
	"chatrelay/internal/pkg/resp"
)

// HandleListFiles returns the names of the files currently in the store.
func HandleListFiles(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		names, err := deps.FileStore.List(r.Context())
		if err != nil {
			logx.Error(err, "Error listing stored files")
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		data := map[string]any{
			"files": names,
		}
		resp.RespondSuccess(w, r, data)
	}
}

// HandleDownloadFile serves the named file's content.
func HandleDownloadFile(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		if name == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		data, err := deps.FileStore.Read(r.Context(), name)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrFileNotFound))
				return
			}

			logx.Error(err, "Error reading stored file", "file_name", name)
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		contentType := mime.TypeByExtension(filepath.Ext(name))
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition", `attachment; filename="`+filepath.Base(name)+`"`)
		w.WriteHeader(http.StatusOK)
		w.Write(data)
	}
}

// HandleUploadFile stores a file submitted as the "file" field of a multipart form.
func HandleUploadFile(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if customErr := req.SetupMultipart(w, r); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			logx.Error(err, "Error reading uploaded file", "file_name", header.Filename)
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		if err := deps.FileStore.Write(r.Context(), header.Filename, data); err != nil {
			logx.Error(err, "Error saving uploaded file", "file_name", header.Filename)
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		logx.Info("File received", "file_name", header.Filename, "bytes", len(data))

		result := map[string]any{
			"fileName": header.Filename,
			"size":     len(data),
		}
		resp.RespondSuccess(w, r, result)
	}
}
