package ipc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"sync"
	"time"

	"log/slog"

	"sublens/internal/daemon"
	"sublens/internal/logging"
	"sublens/internal/logs"
	"sublens/internal/subtitle"
	"sublens/internal/vocab"
)

// Server exposes daemon control via JSON-RPC over a Unix domain socket.
type Server struct {
	path      string
	daemon    *daemon.Daemon
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer configures the IPC server at the given socket path.
func NewServer(ctx context.Context, path string, d *daemon.Daemon, logger *slog.Logger) (*Server, error) {
	if d == nil {
		return nil, errors.New("ipc server requires daemon")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	rpcServer := rpc.NewServer()
	srv := &service{daemon: d, logger: logger, ctx: ctx}
	if err := rpcServer.RegisterName("Sublens", srv); err != nil {
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	return &Server{
		path:      path,
		daemon:    d,
		logger:    logger,
		listener:  listener,
		rpcServer: rpcServer,
		ctx:       serverCtx,
		cancel:    cancel,
	}, nil
}

// Serve starts accepting RPC connections until the context is canceled.
func (s *Server) Serve() {
	s.logger.Debug("IPC server listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				s.logger.Warn("accept failed", logging.Error(err))
				continue
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(c))
			}(conn)
		}
	}()
}

// Close stops the server and removes the socket file.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if err := os.RemoveAll(s.path); err != nil {
		s.logger.Warn("failed to remove socket",
			logging.String("socket", s.path),
			logging.Error(err))
	}
}

type service struct {
	daemon *daemon.Daemon
	logger *slog.Logger
	ctx    context.Context
}

func (s *service) log() *slog.Logger {
	if s.logger == nil {
		return logging.NewNop()
	}
	return s.logger.With(logging.String(logging.FieldComponent, "ipc"))
}

func (s *service) Start(_ StartRequest, resp *StartResponse) error {
	s.log().Debug("daemon start requested")
	if err := s.daemon.Start(s.ctx); err != nil {
		resp.Started = false
		resp.Message = err.Error()
		return nil
	}
	resp.Started = true
	resp.Message = "daemon started"
	return nil
}

func (s *service) Stop(_ StopRequest, resp *StopResponse) error {
	s.log().Debug("daemon stop requested")
	s.daemon.Stop()
	resp.Stopped = true
	return nil
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	st := s.daemon.Status(s.ctx)
	resp.Running = st.Running
	resp.PID = st.PID
	resp.LockPath = st.LockPath
	resp.SocketPath = st.SocketPath
	resp.LogPath = st.LogPath
	resp.VocabPath = st.VocabPath
	resp.VocabCount = st.VocabCount
	resp.Sessions = st.Sessions
	return nil
}

func (s *service) SessionOpen(req SessionOpenRequest, resp *SessionOpenResponse) error {
	id, err := s.daemon.OpenSession(req.ID)
	if err != nil {
		return err
	}
	resp.ID = id
	s.log().Info("session opened", logging.String(logging.FieldSessionID, id))
	return nil
}

func (s *service) SessionClose(req SessionCloseRequest, resp *SessionCloseResponse) error {
	resp.Closed = s.daemon.CloseSession(req.ID)
	if resp.Closed {
		s.log().Info("session closed", logging.String(logging.FieldSessionID, req.ID))
	}
	return nil
}

func (s *service) SessionList(_ SessionListRequest, resp *SessionListResponse) error {
	resp.IDs = s.daemon.SessionIDs()
	return nil
}

func (s *service) LoadSubtitles(req LoadSubtitlesRequest, resp *LoadSubtitlesResponse) error {
	n, err := s.daemon.LoadSubtitles(req.SessionID, subtitle.Payload{
		VideoID:         req.VideoID,
		VTTText:         req.VTTText,
		TargetVTTText:   req.TargetVTTText,
		UseNativeTarget: req.UseNativeTarget,
		SourceLanguage:  req.SourceLanguage,
		TargetLanguage:  req.TargetLanguage,
	})
	if err != nil {
		return err
	}
	resp.Cues = n
	return nil
}

func (s *service) TimeUpdate(req TimeUpdateRequest, resp *TimeUpdateResponse) error {
	display, err := s.daemon.UpdateTime(req.SessionID, req.Time, req.Paused)
	if err != nil {
		return err
	}
	resp.Original = display.Original
	resp.Translated = display.Translated
	return nil
}

func (s *service) WordNodes(req WordNodesRequest, resp *WordNodesResponse) error {
	nodes, err := s.daemon.WordNodes(req.SessionID)
	if err != nil {
		return err
	}
	resp.Nodes = make([]WordNode, 0, len(nodes))
	for _, node := range nodes {
		resp.Nodes = append(resp.Nodes, WordNode(node))
	}
	return nil
}

func (s *service) WordClick(req WordClickRequest, resp *WordClickResponse) error {
	result, view, err := s.daemon.WordClick(req.SessionID, req.NodeID)
	if err != nil {
		return err
	}
	resp.Result = string(result)
	resp.View = view
	return nil
}

func (s *service) StartAnalysis(req StartAnalysisRequest, resp *StartAnalysisResponse) error {
	started, err := s.daemon.StartAnalysis(s.ctx, req.SessionID)
	if err != nil {
		return err
	}
	resp.Started = started
	return nil
}

func (s *service) ModalView(req ModalViewRequest, resp *ModalViewResponse) error {
	view, err := s.daemon.ModalView(req.SessionID)
	if err != nil {
		return err
	}
	resp.View = view
	return nil
}

func (s *service) CloseModal(req CloseModalRequest, _ *CloseModalResponse) error {
	return s.daemon.CloseModal(req.SessionID)
}

func (s *service) Visibility(req VisibilityRequest, _ *VisibilityResponse) error {
	return s.daemon.VisibilityChange(req.SessionID, req.Visible)
}

func convertPhrase(p vocab.Phrase) VocabPhrase {
	return VocabPhrase{
		ID:             p.ID,
		VideoID:        p.VideoID,
		Text:           p.Text,
		Words:          p.Words,
		SourceLanguage: p.SourceLanguage,
		TargetLanguage: p.TargetLanguage,
		Result:         p.Result,
		CreatedAt:      p.CreatedAt,
	}
}

func (s *service) VocabList(req VocabListRequest, resp *VocabListResponse) error {
	phrases, err := s.daemon.VocabList(s.ctx, req.VideoID, req.Limit)
	if err != nil {
		return err
	}
	resp.Phrases = make([]VocabPhrase, 0, len(phrases))
	for _, p := range phrases {
		resp.Phrases = append(resp.Phrases, convertPhrase(p))
	}
	return nil
}

func (s *service) VocabDelete(req VocabDeleteRequest, resp *VocabDeleteResponse) error {
	if req.ID <= 0 {
		return fmt.Errorf("invalid phrase id %d", req.ID)
	}
	err := s.daemon.VocabDelete(s.ctx, req.ID)
	if err != nil {
		if errors.Is(err, vocab.ErrNotFound) {
			resp.Deleted = false
			return nil
		}
		return err
	}
	resp.Deleted = true
	return nil
}

func (s *service) LogTail(req LogTailRequest, resp *LogTailResponse) error {
	logPath := s.daemon.LogPath()
	if logPath == "" {
		resp.Offset = 0
		return nil
	}
	wait := time.Duration(req.WaitMillis) * time.Millisecond
	if wait <= 0 && req.Follow {
		wait = time.Second
	}
	options := logs.TailOptions{
		Offset: req.Offset,
		Limit:  req.Limit,
		Follow: req.Follow,
		Wait:   wait,
	}
	ctx := s.ctx
	if req.Follow && wait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(s.ctx, wait+500*time.Millisecond)
		defer cancel()
	}
	result, err := logs.Tail(ctx, logPath, options)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			resp.Offset = result.Offset
			return nil
		}
		return err
	}
	resp.Lines = result.Lines
	resp.Offset = result.Offset
	return nil
}
