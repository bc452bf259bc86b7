package ipc

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"
)

// Client provides RPC access to the daemon.
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// Dial connects to the IPC server at the given socket path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return nil, err
	}
	rpcClient := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return &Client{conn: conn, client: rpcClient}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		_ = c.client.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Start requests the daemon to start.
func (c *Client) Start() (*StartResponse, error) {
	var resp StartResponse
	if err := c.client.Call("Sublens.Start", StartRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Stop requests the daemon to stop.
func (c *Client) Stop() (*StopResponse, error) {
	var resp StopResponse
	if err := c.client.Call("Sublens.Stop", StopRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Status retrieves the daemon status.
func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.client.Call("Sublens.Status", StatusRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SessionOpen creates or returns a session.
func (c *Client) SessionOpen(id string) (*SessionOpenResponse, error) {
	var resp SessionOpenResponse
	if err := c.client.Call("Sublens.SessionOpen", SessionOpenRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SessionClose tears down a session.
func (c *Client) SessionClose(id string) (*SessionCloseResponse, error) {
	var resp SessionCloseResponse
	if err := c.client.Call("Sublens.SessionClose", SessionCloseRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SessionList lists open sessions.
func (c *Client) SessionList() (*SessionListResponse, error) {
	var resp SessionListResponse
	if err := c.client.Call("Sublens.SessionList", SessionListRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// LoadSubtitles delivers subtitle documents to a session.
func (c *Client) LoadSubtitles(req LoadSubtitlesRequest) (*LoadSubtitlesResponse, error) {
	var resp LoadSubtitlesResponse
	if err := c.client.Call("Sublens.LoadSubtitles", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TimeUpdate advances a session's playback clock.
func (c *Client) TimeUpdate(req TimeUpdateRequest) (*TimeUpdateResponse, error) {
	var resp TimeUpdateResponse
	if err := c.client.Call("Sublens.TimeUpdate", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// WordNodes lists the clickable words of the current display.
func (c *Client) WordNodes(sessionID string) (*WordNodesResponse, error) {
	var resp WordNodesResponse
	if err := c.client.Call("Sublens.WordNodes", WordNodesRequest{SessionID: sessionID}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// WordClick toggles the selection state of a word node.
func (c *Client) WordClick(sessionID, nodeID string) (*WordClickResponse, error) {
	var resp WordClickResponse
	req := WordClickRequest{SessionID: sessionID, NodeID: nodeID}
	if err := c.client.Call("Sublens.WordClick", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// StartAnalysis freezes the selection and dispatches analysis.
func (c *Client) StartAnalysis(sessionID string) (*StartAnalysisResponse, error) {
	var resp StartAnalysisResponse
	if err := c.client.Call("Sublens.StartAnalysis", StartAnalysisRequest{SessionID: sessionID}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ModalView fetches a session's modal presentation state.
func (c *Client) ModalView(sessionID string) (*ModalViewResponse, error) {
	var resp ModalViewResponse
	if err := c.client.Call("Sublens.ModalView", ModalViewRequest{SessionID: sessionID}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CloseModal dismisses a session's modal.
func (c *Client) CloseModal(sessionID string) error {
	var resp CloseModalResponse
	return c.client.Call("Sublens.CloseModal", CloseModalRequest{SessionID: sessionID}, &resp)
}

// Visibility reports a page visibility transition.
func (c *Client) Visibility(sessionID string, visible bool) error {
	var resp VisibilityResponse
	req := VisibilityRequest{SessionID: sessionID, Visible: visible}
	return c.client.Call("Sublens.Visibility", req, &resp)
}

// VocabList lists saved phrases, optionally scoped to one video.
func (c *Client) VocabList(videoID string, limit int) (*VocabListResponse, error) {
	var resp VocabListResponse
	req := VocabListRequest{VideoID: videoID, Limit: limit}
	if err := c.client.Call("Sublens.VocabList", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// VocabDelete removes one saved phrase.
func (c *Client) VocabDelete(id int64) (*VocabDeleteResponse, error) {
	var resp VocabDeleteResponse
	if err := c.client.Call("Sublens.VocabDelete", VocabDeleteRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// LogTail returns log lines from the daemon.
func (c *Client) LogTail(req LogTailRequest) (*LogTailResponse, error) {
	var resp LogTailResponse
	if err := c.client.Call("Sublens.LogTail", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
