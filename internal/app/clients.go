package app

import (
	"fmt"
	"strings"

	"github.com/yungbote/studynotes-backend/internal/clients/redis"
	"github.com/yungbote/studynotes-backend/internal/modules/notegen"
	"github.com/yungbote/studynotes-backend/internal/platform/logger"
	"github.com/yungbote/studynotes-backend/internal/platform/openai"
)

type Clients struct {
	TopicEvents redis.TopicEventBus
	Generator   notegen.Generator
}

func wireClients(log *logger.Logger, cfg *Config) (Clients, error) {
	log.Info("Wiring clients...")

	// Redis
	bus, err := redis.NewTopicEventBus(log, redis.Config{
		Addr:    cfg.Redis.Addr,
		Channel: cfg.Redis.Channel,
	})
	if err != nil {
		return Clients{}, fmt.Errorf("init redis topic event bus: %w", err)
	}

	// Openai
	var gen notegen.Generator
	if strings.TrimSpace(cfg.OpenAI.APIKey) == "" {
		log.Warn("OPENAI_API_KEY not set; using static note generator (development only)")
		gen = notegen.StaticGenerator{}
	} else {
		ai, err := openai.NewClient(log, openai.Config{
			APIKey:     cfg.OpenAI.APIKey,
			BaseURL:    cfg.OpenAI.BaseURL,
			Model:      cfg.OpenAI.Model,
			Timeout:    cfg.OpenAI.Timeout,
			MaxRetries: cfg.OpenAI.MaxRetries,
		})
		if err != nil {
			_ = bus.Close()
			return Clients{}, fmt.Errorf("init openai client: %w", err)
		}
		gen = notegen.NewOpenAIGenerator(log, ai)
	}

	return Clients{TopicEvents: bus, Generator: gen}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.TopicEvents != nil {
		_ = c.TopicEvents.Close()
	}
}
