package out

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sync"
	"time"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	coachrpc "focustree/internal/modules/coach/adapter/out/rpc"
	"focustree/internal/modules/coach/domain"
	coachout "focustree/internal/modules/coach/port/out"
	apperrors "focustree/internal/platform/errors"
)

// PluginModel runs a coach backend binary over go-plugin. The process is
// started on first use and kept until Close.
type PluginModel struct {
	binary       string
	startTimeout time.Duration
	log          hclog.Logger

	mu     sync.Mutex
	client *plugin.Client
	rpc    coachrpc.CoachBackendClient
}

func NewPluginModel(binary string, startTimeout time.Duration, log hclog.Logger) *PluginModel {
	return &PluginModel{binary: binary, startTimeout: startTimeout, log: log}
}

var _ coachout.Model = (*PluginModel)(nil)

func (m *PluginModel) Generate(ctx context.Context, req domain.Request) (string, error) {
	backend, err := m.connect()
	if err != nil {
		return "", err
	}
	history := make([]coachrpc.Turn, 0, len(req.History))
	for _, turn := range req.History {
		history = append(history, coachrpc.Turn{Role: string(turn.Role), Text: turn.Text})
	}
	response, err := backend.Generate(ctx, &coachrpc.GenerateRequest{
		Kind:      string(req.Kind),
		System:    req.System,
		Prompt:    req.Prompt,
		Image:     req.Image,
		ImageMIME: req.ImageMIME,
		History:   history,
		MaxTokens: int32(req.MaxTokens),
		JSON:      req.JSON,
		Context:   req.Context,
	})
	if err != nil {
		switch status.Code(err) {
		case codes.ResourceExhausted:
			return "", fmt.Errorf("%w: %v", apperrors.ErrRateLimited, err)
		case codes.Unavailable:
			m.reset()
		}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("generate %s: %w", req.Kind, ctx.Err())
		}
		return "", fmt.Errorf("generate %s: %w", req.Kind, err)
	}
	return response.Text, nil
}

// Metadata asks the backend to describe itself. It also serves as a startup
// check.
func (m *PluginModel) Metadata(ctx context.Context) (coachrpc.Metadata, error) {
	backend, err := m.connect()
	if err != nil {
		return coachrpc.Metadata{}, err
	}
	meta, err := backend.GetMetadata(ctx)
	if err != nil {
		return coachrpc.Metadata{}, fmt.Errorf("get metadata: %w", err)
	}
	return *meta, nil
}

func (m *PluginModel) Close() error {
	m.reset()
	return nil
}

func (m *PluginModel) connect() (coachrpc.CoachBackendClient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rpc != nil && m.client != nil && !m.client.Exited() {
		return m.rpc, nil
	}
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  coachrpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          coachrpc.PluginMap(nil),
		Cmd:              exec.Command(m.binary),
		Managed:          true,
		StartTimeout:     m.startTimeout,
		Logger:           m.log.Named("plugin"),
	})
	rpcClient, err := client.Client()
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("%w: start coach plugin: %v", apperrors.ErrModelUnavailable, err)
	}
	raw, err := rpcClient.Dispense(coachrpc.PluginMapKey)
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("%w: dispense coach plugin: %v", apperrors.ErrModelUnavailable, err)
	}
	typed, ok := raw.(coachrpc.CoachBackendClient)
	if !ok {
		client.Kill()
		return nil, fmt.Errorf("%w: coach plugin client type mismatch", apperrors.ErrModelUnavailable)
	}
	m.client = client
	m.rpc = typed
	m.log.Debug("coach plugin started", "binary", m.binary)
	return typed, nil
}

func (m *PluginModel) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.client != nil {
		m.client.Kill()
	}
	m.client = nil
	m.rpc = nil
}
