package main

import (
	"context"

	"github.com/hashicorp/go-plugin"

	coachadapter "focustree/internal/modules/coach/adapter/out"
	coachrpc "focustree/internal/modules/coach/adapter/out/rpc"
	"focustree/internal/modules/coach/domain"
)

type server struct {
	model *coachadapter.OfflineModel
}

func (s *server) GetMetadata(_ context.Context, _ *coachrpc.Empty) (*coachrpc.Metadata, error) {
	return &coachrpc.Metadata{
		Name:    "offline-coach",
		Version: "1.0.0",
		Kinds: []string{
			string(domain.KindAnalyze), string(domain.KindPlan), string(domain.KindTasks),
			string(domain.KindValidate), string(domain.KindSuggest), string(domain.KindChat),
			string(domain.KindInsights),
		},
	}, nil
}

func (s *server) Generate(ctx context.Context, in *coachrpc.GenerateRequest) (*coachrpc.GenerateResponse, error) {
	history := make([]domain.Turn, 0, len(in.History))
	for _, turn := range in.History {
		history = append(history, domain.Turn{Role: domain.Role(turn.Role), Text: turn.Text})
	}
	text, err := s.model.Generate(ctx, domain.Request{
		Kind:      domain.Kind(in.Kind),
		System:    in.System,
		Prompt:    in.Prompt,
		Image:     in.Image,
		ImageMIME: in.ImageMIME,
		History:   history,
		MaxTokens: int(in.MaxTokens),
		JSON:      in.JSON,
		Context:   in.Context,
	})
	if err != nil {
		return nil, err
	}
	return &coachrpc.GenerateResponse{Text: text}, nil
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: coachrpc.HandshakeConfig,
		Plugins:         coachrpc.PluginMap(&server{model: coachadapter.NewOfflineModel()}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
