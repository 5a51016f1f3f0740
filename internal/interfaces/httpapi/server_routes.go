package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerIngestRoutes(mux *http.ServeMux, handler *Handler, ingestToken string) {
	mux.Handle("POST /v1/receipts", RequireIngestToken(ingestToken, http.HandlerFunc(handler.IngestReceipt)))
}
