package settings

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"psp-webhook/internal/logger"
	"psp-webhook/internal/payment/buckaroo"

	"go.uber.org/zap"
)

type Store interface {
	GetBuckarooSettings(ctx context.Context, providerID int64) (buckaroo.Credentials, error)
}

type store struct {
	repo       Repository
	cipher     *Cipher
	useTest    bool
	webhookURL string
}

// NewStore selects the test keys when useTest is set, the live keys otherwise.
func NewStore(repo Repository, cipher *Cipher, useTest bool, webhookURL string) Store {
	return &store{
		repo:       repo,
		cipher:     cipher,
		useTest:    useTest,
		webhookURL: webhookURL,
	}
}

func (s *store) GetBuckarooSettings(ctx context.Context, providerID int64) (buckaroo.Credentials, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "settings"),
		zap.Int64("provider_id", providerID),
	)

	values, err := s.repo.GetProviderSettings(ctx, providerID)
	if err != nil {
		return buckaroo.Credentials{}, err
	}

	websiteKeyProperty, secretKeyProperty := buckaroo.WebsiteKeyLiveProperty, buckaroo.SecretKeyLiveProperty
	if s.useTest {
		websiteKeyProperty, secretKeyProperty = buckaroo.WebsiteKeyTestProperty, buckaroo.SecretKeyTestProperty
	}

	websiteKey, err := s.cipher.Decrypt(values[websiteKeyProperty])
	if err != nil {
		return buckaroo.Credentials{}, fmt.Errorf("decrypt %s: %w", websiteKeyProperty, err)
	}
	secretKey, err := s.cipher.Decrypt(values[secretKeyProperty])
	if err != nil {
		return buckaroo.Credentials{}, fmt.Errorf("decrypt %s: %w", secretKeyProperty, err)
	}

	creds := buckaroo.Credentials{
		WebsiteKey:      websiteKey,
		SecretKey:       secretKey,
		PushContentType: buckaroo.PushContentType(parseEnum(log, buckaroo.PushContentTypeProperty, values)),
		HashMethod:      buckaroo.HashMethod(parseEnum(log, buckaroo.HashMethodProperty, values)),
		WebhookURL:      s.webhookURL,
	}

	log.Debug("loaded buckaroo settings",
		zap.Bool("test_keys", s.useTest),
		zap.Stringer("push_content_type", creds.PushContentType),
		zap.Stringer("hash_method", creds.HashMethod),
	)
	return creds, nil
}

// parseEnum returns 0 for missing or non-numeric values; the orchestrator
// rejects 0 as a configuration error.
func parseEnum(log *zap.Logger, property string, values map[string]string) int {
	raw := strings.TrimSpace(values[property])
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Warn("invalid numeric setting", zap.String("property", property), zap.String("value", raw))
		return 0
	}
	return n
}
