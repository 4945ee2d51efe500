package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nulzo/llm-translate/internal/language"
	"github.com/nulzo/llm-translate/internal/provider"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ErrTranslationFailed prefixes every error returned by Translate.
var ErrTranslationFailed = errors.New("translation failed")

const tracerName = "github.com/nulzo/llm-translate/internal/gateway"

// Service dispatches translation requests to provider adapters.
type Service interface {
	// Translate resolves the language name, picks the adapter for id and performs
	// exactly one call with creds[id]. Errors wrap ErrTranslationFailed and the
	// adapter's *provider.Error.
	Translate(ctx context.Context, text, targetLanguage string, id provider.ID, creds provider.CredentialSet) (string, error)

	// ListModels asks a provider that supports discovery for its models.
	ListModels(ctx context.Context, id provider.ID, baseURL string) ([]provider.ModelDescriptor, error)
}

type service struct {
	logger   *zap.Logger
	registry *provider.Registry
	tracer   trace.Tracer
}

func NewService(logger *zap.Logger, registry *provider.Registry) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{
		logger:   logger,
		registry: registry,
		tracer:   otel.Tracer(tracerName),
	}
}

func (s *service) Translate(ctx context.Context, text, targetLanguage string, id provider.ID, creds provider.CredentialSet) (string, error) {
	ctx, span := s.tracer.Start(ctx, "gateway.Translate", trace.WithAttributes(
		attribute.String("provider", string(id)),
		attribute.String("target_language", targetLanguage),
		attribute.Int("text_length", len(text)),
	))
	defer span.End()

	languageName := language.Resolve(targetLanguage)

	adapter, err := s.registry.Get(id)
	if err != nil {
		return "", s.fail(span, id, err)
	}

	start := time.Now()
	translation, err := adapter.Translate(ctx, text, languageName, creds[id])
	if err != nil {
		return "", s.fail(span, id, err)
	}

	s.logger.Debug("translation completed",
		zap.String("provider", string(id)),
		zap.String("language", languageName),
		zap.Duration("latency", time.Since(start)),
	)
	return translation, nil
}

func (s *service) ListModels(ctx context.Context, id provider.ID, baseURL string) ([]provider.ModelDescriptor, error) {
	ctx, span := s.tracer.Start(ctx, "gateway.ListModels", trace.WithAttributes(
		attribute.String("provider", string(id)),
	))
	defer span.End()

	adapter, err := s.registry.Get(id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	lister, ok := adapter.(provider.ModelLister)
	if !ok {
		err := &provider.Error{
			Kind:     provider.KindUnsupportedProvider,
			Provider: id,
			Message:  fmt.Sprintf("%s does not support model discovery", id.DisplayName()),
		}
		span.RecordError(err)
		return nil, err
	}

	models, err := lister.ListModels(ctx, baseURL)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Warn("model discovery failed", zap.String("provider", string(id)), zap.Error(err))
		return nil, err
	}
	return models, nil
}

func (s *service) fail(span trace.Span, id provider.ID, err error) error {
	wrapped := fmt.Errorf("%w: %w", ErrTranslationFailed, err)

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	fields := []zap.Field{zap.String("provider", string(id)), zap.Error(err)}
	var pe *provider.Error
	if errors.As(err, &pe) {
		fields = append(fields, zap.String("kind", string(pe.Kind)))
		if pe.StatusCode != 0 {
			fields = append(fields, zap.Int("status", pe.StatusCode))
		}
	}
	s.logger.Warn("translation failed", fields...)

	return wrapped
}
