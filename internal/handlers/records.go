package handlers

import (
	"bytes"
	"errors"
	"io"
	"time"

	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/kateder/internal/app"
	"github.com/shrimpsizemoose/kateder/internal/metrics"
	"github.com/shrimpsizemoose/kateder/internal/store"
)

type RecordHandler struct {
	service *app.Service
}

func NewRecordHandler(service *app.Service) *RecordHandler {
	return &RecordHandler{
		service: service,
	}
}

// Register mounts list/add/update/delete routes for every collection under
// /api/v1/{collection}.
func (h *RecordHandler) Register(mux *http.ServeMux) {
	reg := h.service.Registry
	registerCollection(mux, h.service, reg.Students)
	registerCollection(mux, h.service, reg.Teachers)
	registerCollection(mux, h.service, reg.Parents)
	registerCollection(mux, h.service, reg.Classes)
	registerCollection(mux, h.service, reg.Schedules)
	registerCollection(mux, h.service, reg.Assignments)
	registerCollection(mux, h.service, reg.Grades)
}

func registerCollection[T store.Entity](mux *http.ServeMux, service *app.Service, coll *store.Collection[T]) {
	base := "/api/v1/" + coll.Key()
	mux.HandleFunc("GET "+base, handleList(service, coll))
	mux.HandleFunc("POST "+base, handleAdd(service, coll))
	mux.HandleFunc("PATCH "+base+"/{id}", handleUpdate(service, coll))
	mux.HandleFunc("DELETE "+base+"/{id}", handleDelete(service, coll))
}

func handleList[T store.Entity](service *app.Service, coll *store.Collection[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		defer func() {
			duration := time.Since(start).Seconds()
			metrics.APIRequestDuration.WithLabelValues(
				r.URL.Path,
				r.Method,
				"200",
			).Observe(duration)
		}()

		if !service.ValidateHeaders(r.Header) {
			http.Error(w, "these are not the droids you are looking for", http.StatusNotFound)
			return
		}

		records, err := coll.GetAll(r.Context())
		if err != nil {
			writeStoreError(w, coll.Key(), err)
			return
		}
		metrics.RecordOpsTotal.WithLabelValues(coll.Key(), "get_all").Inc()

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]interface{}{
			"rows": records,
		}); err != nil {
			logger.Debug.Printf("Error encoding response: %v", err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
			return
		}
	}
}

func handleAdd[T store.Entity](service *app.Service, coll *store.Collection[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		defer func() {
			duration := time.Since(start).Seconds()
			metrics.APIRequestDuration.WithLabelValues(
				r.URL.Path,
				r.Method,
				"200",
			).Observe(duration)
		}()

		if !service.ValidateHeaders(r.Header) {
			http.Error(w, "these are not the droids you are looking for", http.StatusForbidden)
			return
		}

		record, err := decodeRecord[T](r.Body)
		if err != nil {
			logger.Debug.Printf("Bad %s record: %v", coll.Key(), err)
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		if err := coll.Add(r.Context(), record); err != nil {
			writeStoreError(w, coll.Key(), err)
			return
		}
		metrics.RecordOpsTotal.WithLabelValues(coll.Key(), "add").Inc()

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"record": record,
		})
	}
}

func handleUpdate[T store.Entity](service *app.Service, coll *store.Collection[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !service.ValidateHeaders(r.Header) {
			http.Error(w, "these are not the droids you are looking for", http.StatusForbidden)
			return
		}

		id := r.PathValue("id")
		if id == "" {
			http.Error(w, "Invalid record id", http.StatusBadRequest)
			return
		}

		var patch map[string]any
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		found, err := coll.Update(r.Context(), id, patch)
		if err != nil {
			writeStoreError(w, coll.Key(), err)
			return
		}
		if !found {
			// absent target stays a silent no-op for callers
			logger.Debug.Printf("Update on %s/%s matched nothing", coll.Key(), id)
		}
		metrics.RecordOpsTotal.WithLabelValues(coll.Key(), "update").Inc()

		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}
}

func handleDelete[T store.Entity](service *app.Service, coll *store.Collection[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !service.ValidateHeaders(r.Header) {
			http.Error(w, "these are not the droids you are looking for", http.StatusForbidden)
			return
		}

		id := r.PathValue("id")
		if id == "" {
			http.Error(w, "Invalid record id", http.StatusBadRequest)
			return
		}

		found, err := coll.Delete(r.Context(), id)
		if err != nil {
			writeStoreError(w, coll.Key(), err)
			return
		}
		if !found {
			logger.Debug.Printf("Delete on %s/%s matched nothing", coll.Key(), id)
		}
		metrics.RecordOpsTotal.WithLabelValues(coll.Key(), "delete").Inc()

		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}
}

// decodeRecord reads one record from body, assigning a fresh ID when the
// caller did not supply one.
func decodeRecord[T store.Entity](body io.Reader) (T, error) {
	var zero T

	fields := map[string]any{}
	if err := json.NewDecoder(body).Decode(&fields); err != nil {
		return zero, err
	}
	if id, _ := fields["id"].(string); id == "" {
		fields["id"] = store.GenerateID()
	}

	data, err := json.Marshal(fields)
	if err != nil {
		return zero, err
	}

	var record T
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&record); err != nil {
		return zero, err
	}
	return record, nil
}

func writeStoreError(w http.ResponseWriter, key string, err error) {
	var verrs validator.ValidationErrors
	switch {
	case errors.Is(err, store.ErrCorruptCollection):
		logger.Error.Printf("Corrupt collection %s: %v", key, err)
		http.Error(w, "Corrupt collection", http.StatusInternalServerError)
	case errors.As(err, &verrs), errors.Is(err, store.ErrShapeMismatch):
		logger.Debug.Printf("Validation failed on %s: %v", key, err)
		http.Error(w, "Validation failed", http.StatusBadRequest)
	default:
		logger.Error.Printf("Store error on %s: %v", key, err)
		http.Error(w, "Failed to access collection", http.StatusInternalServerError)
	}
}
