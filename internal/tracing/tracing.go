package tracing

import (
	"io"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"github.com/uber/jaeger-client-go"
	jaegercfg "github.com/uber/jaeger-client-go/config"
	"go.uber.org/zap"
	"max.ks1230/split-expenses-bot/internal/logger"
)

// Init installs a global jaeger tracer configured from the JAEGER_* environment
// variables. Without a sampler in the environment every span is sampled.
func Init(serviceName string) (io.Closer, error) {
	cfg, err := jaegercfg.FromEnv()
	if err != nil {
		return nil, errors.Wrap(err, "read jaeger env")
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = serviceName
	}
	if cfg.Sampler == nil {
		cfg.Sampler = &jaegercfg.SamplerConfig{}
	}
	if cfg.Sampler.Type == "" {
		cfg.Sampler.Type = jaeger.SamplerTypeConst
		cfg.Sampler.Param = 1
	}

	tracer, closer, err := cfg.NewTracer()
	if err != nil {
		return nil, errors.Wrap(err, "create jaeger tracer")
	}
	opentracing.SetGlobalTracer(tracer)

	logger.Info("tracing initialized",
		zap.String("service", cfg.ServiceName),
		zap.Bool("disabled", cfg.Disabled))
	return closer, nil
}
