package cli

import (
	"github.com/rs/zerolog"

	"task-manager/internal/api"
	"task-manager/internal/config"
	"task-manager/internal/services"
)

// DefaultAPIFactory wires the SQLite store and, when credentials are present,
// the WeChat Pay client. Without credentials refreshes fail with a config error.
func DefaultAPIFactory(cfg *config.Config, log zerolog.Logger) (api.BusinessAPI, func() error, error) {
	repo, err := config.CreateRepository(cfg)
	if err != nil {
		return nil, nil, err
	}

	var fetcher services.BillFetcher
	if cfg.HasWeChatCredentials() {
		client, err := config.CreateBillClient(cfg)
		if err != nil {
			repo.Close()
			return nil, nil, err
		}
		fetcher = client
	} else {
		log.Warn().Msg("WeChat Pay credentials are not configured, bill refresh is disabled")
	}

	log.Debug().
		Str("dsn", cfg.Database.DSN).
		Str("wechat_base_url", cfg.WeChatPay.BaseURL).
		Msg("Task store ready")

	return api.NewBusinessAPIFromRepository(repo, fetcher, cfg.Validation.TaskTextMaxLength), repo.Close, nil
}
