package worker

// alerta_worker.go
// Processes low-stock alert jobs from QueueAlertaStock and notifies the
// administrator by email. Alerts are fire-and-forget from the point of view
// of purchases/productions: a failed send lands in the DLQ, never in the
// originating request.

import (
	"context"
	"encoding/json"
	"fmt"

	"blendfabrica/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// AlertaStockPayload is the job envelope sent to QueueAlertaStock.
type AlertaStockPayload struct {
	Tipo        string `json:"tipo"` // "ingrediente" | "producto"
	ID          string `json:"id"`
	Nombre      string `json:"nombre"`
	Stock       string `json:"stock"`
	StockMinimo string `json:"stock_minimo"`
	Unidad      string `json:"unidad,omitempty"`
}

// AlertaStockWorker emails the administrator when stock crosses the reorder
// threshold.
type AlertaStockWorker struct {
	mailer     *infra.Mailer
	adminEmail string
}

func NewAlertaStockWorker(mailer *infra.Mailer, adminEmail string) *AlertaStockWorker {
	return &AlertaStockWorker{mailer: mailer, adminEmail: adminEmail}
}

// Process sends the alert email. On send failure the job goes to the DLQ.
func (w *AlertaStockWorker) Process(ctx context.Context, rdb *redis.Client, queue string, raw json.RawMessage) {
	var payload AlertaStockPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("alerta_worker: invalid payload")
		return
	}
	if w.adminEmail == "" {
		log.Warn().Msg("alerta_worker: no admin email configured — skipping")
		return
	}

	subject := fmt.Sprintf("Stock crítico: %s", payload.Nombre)
	body := fmt.Sprintf(
		"El %s %q quedó en %s %s (mínimo configurado: %s).\nReponer stock antes de la próxima producción.",
		payload.Tipo, payload.Nombre, payload.Stock, payload.Unidad, payload.StockMinimo,
	)

	if err := w.mailer.Send(w.adminEmail, subject, body); err != nil {
		log.Error().Err(err).Str("nombre", payload.Nombre).Msg("alerta_worker: failed to send email")
		SendToDLQ(ctx, rdb, queue, "alerta_stock", raw, err.Error(), 1)
		return
	}
	log.Info().Str("nombre", payload.Nombre).Msg("alerta_worker: alerta enviada")
}
