package app

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/fx"

	"github.com/llante/llante_site/config"
	"github.com/llante/llante_site/internal/service/dispatch"
	svcsms "github.com/llante/llante_site/pkg/sms"
)

// WorkerModule registers all NATS event workers.
var WorkerModule = fx.Module("workers",
	fx.Invoke(RegisterWorkers),
)

type WorkerParams struct {
	fx.In

	Lc  fx.Lifecycle
	Cfg *config.Config
	NC  *nats.Conn `optional:"true"`
	SMS *svcsms.Client
}

func RegisterWorkers(p WorkerParams) {
	p.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			startLeadAlertWorker(p.NC, p.SMS, p.Cfg)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			// Drain handled by ProvideNatsClient
			return nil
		},
	})
}

// ---------------------------------------------------------------------------
// lead_alert_worker
// ---------------------------------------------------------------------------

type leadAlerter interface {
	SendLeadAlert(ctx context.Context, a svcsms.LeadAlert) error
}

func startLeadAlertWorker(nc *nats.Conn, smsCli *svcsms.Client, cfg *config.Config) {
	if nc == nil {
		return
	}
	if !smsCli.IsEnabled() || cfg.Notify.SMSPhone == "" {
		slog.Debug("lead_alert_worker: sms alerts not configured")
		return
	}

	subject := cfg.Nats.SubjectPrefix + ".lead.created.*"
	if _, err := nc.Subscribe(subject, leadAlertHandler(smsCli, cfg.Notify.SMSPhone)); err != nil {
		slog.Error("lead_alert_worker: subscribe failed", "subject", subject, "err", err)
		return
	}
	slog.Info("lead_alert_worker: started", "subject", subject)
}

func leadAlertHandler(alerter leadAlerter, phone string) nats.MsgHandler {
	return func(msg *nats.Msg) {
		var ev dispatch.LeadCreated
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			slog.Warn("lead_alert_worker: bad event", "subject", msg.Subject, "err", err)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		err := alerter.SendLeadAlert(ctx, svcsms.LeadAlert{
			Phone:  phone,
			Kind:   string(ev.Kind),
			LeadID: ev.ID.String(),
		})
		if err != nil {
			slog.Warn("lead_alert_worker: send sms failed", "lead_id", ev.ID, "err", err)
		}
	}
}
