package app

import (
	"log/slog"

	"github.com/nats-io/nats.go"
	"go.uber.org/fx"

	"github.com/llante/llante_site/config"
	"github.com/llante/llante_site/internal/locale"
	"github.com/llante/llante_site/internal/repo"
	"github.com/llante/llante_site/internal/service/contact"
	"github.com/llante/llante_site/internal/service/dispatch"
	"github.com/llante/llante_site/internal/service/join"
	"github.com/llante/llante_site/internal/submission"
	"github.com/llante/llante_site/pkg/email"
	"github.com/llante/llante_site/pkg/observability"
)

// ServiceModule provides all application service dependencies.
var ServiceModule = fx.Module("services",
	fx.Provide(
		ProvideValidator,
		ProvideDispatcher,
		ProvideContactService,
		ProvideJoinService,
	),
)

func ProvideValidator(cfg *config.Config, set *locale.Set) *submission.Validator {
	return submission.NewValidator(set, RulesFromConfig(cfg.Forms))
}

// RulesFromConfig maps the forms section onto validation rules, keeping the
// defaults for anything left unset.
func RulesFromConfig(f config.FormsConfig) submission.Rules {
	rules := submission.DefaultRules()
	rules.RequirePhone = f.Contact.RequirePhone
	rules.RequireService = f.Contact.RequireService
	rules.StrictPhone = f.Contact.StrictPhone
	if len(f.Contact.Services) > 0 {
		rules.Services = f.Contact.Services
	}
	if len(f.Join.Options) > 0 {
		rules.JoinOptions = f.Join.Options
	}
	if f.PhoneRegion != "" {
		rules.PhoneRegion = f.PhoneRegion
	}
	return rules
}

type DispatcherParams struct {
	fx.In

	Cfg    *config.Config
	Mailer *email.Client
	Repo   *repo.Client `optional:"true"`
	NC     *nats.Conn   `optional:"true"`
}

func ProvideDispatcher(p DispatcherParams) dispatch.Dispatcher {
	opts := dispatch.Options{
		Mailer: p.Mailer,
		Prefix: p.Cfg.Nats.SubjectPrefix,
		Logger: slog.Default(),
	}
	// Assign only non-nil pointers so absent backends stay nil interfaces.
	if p.Repo != nil {
		opts.Store = p.Repo
	}
	if p.NC != nil {
		opts.Publisher = p.NC
	}
	return dispatch.New(opts)
}

func ProvideContactService(v *submission.Validator, d dispatch.Dispatcher, m *observability.SubmissionMetrics) contact.Service {
	return contact.New(v, d, m, slog.Default())
}

func ProvideJoinService(v *submission.Validator, d dispatch.Dispatcher, m *observability.SubmissionMetrics) join.Service {
	return join.New(v, d, m, slog.Default())
}
