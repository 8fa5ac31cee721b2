package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tractor-lite/card"
	"tractor-lite/replay"
	"tractor-lite/tractor"
)

const (
	defaultTimeout   = 10 * time.Second
	maxResponseBytes = 1 << 20
)

// TokenSource 提供当前会话的 bearer 凭证。
// 凭证已知过期时返回错误，省掉一次注定 401 的往返。
type TokenSource interface {
	Token() (string, error)
}

// TokenFunc adapts a plain function to TokenSource.
type TokenFunc func() (string, error)

func (f TokenFunc) Token() (string, error) { return f() }

type Config struct {
	// BaseURL 含 /api 前缀，如 http://127.0.0.1:8080/api
	BaseURL     string
	Credentials TokenSource
	HTTPClient  *http.Client
	Logger      *zap.Logger
}

func (c Config) validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return fmt.Errorf("BaseURL must not be empty")
	}
	return nil
}

// Client 远端游戏服务的 HTTP 客户端。规则、洗牌、合法性判定全在服务端，
// 这里只做请求/响应的搬运和错误归类。
type Client struct {
	base  string
	creds TokenSource
	http  *http.Client
	log   *zap.Logger
}

func New(cfg Config) (*Client, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		base:  strings.TrimRight(cfg.BaseURL, "/"),
		creds: cfg.Credentials,
		http:  httpClient,
		log:   logger,
	}, nil
}

// BaseURLFromEnv 读取服务地址，留空用本地默认。
func BaseURLFromEnv() string {
	for _, key := range []string{"TRACTOR_API_BASE_URL", "API_BASE_URL"} {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
	}
	return "http://127.0.0.1:8080/api"
}

// ---- auth ----

func (c *Client) Login(ctx context.Context, username, password string) (string, User, error) {
	var resp authResponse
	err := c.do(ctx, http.MethodPost, "/login", credentialsRequest{Username: username, Password: password}, &resp)
	if err != nil {
		return "", User{}, err
	}
	if resp.Token == "" || resp.User == nil {
		return "", User{}, fmt.Errorf("login: incomplete response")
	}
	return resp.Token, *resp.User, nil
}

func (c *Client) Register(ctx context.Context, username, password string) (string, User, error) {
	var resp authResponse
	err := c.do(ctx, http.MethodPost, "/register", credentialsRequest{Username: username, Password: password}, &resp)
	if err != nil {
		return "", User{}, err
	}
	if resp.Token == "" || resp.User == nil {
		return "", User{}, fmt.Errorf("register: incomplete response")
	}
	return resp.Token, *resp.User, nil
}

func (c *Client) Logout(ctx context.Context) error {
	var resp baseResponse
	return c.do(ctx, http.MethodPost, "/logout", nil, &resp)
}

func (c *Client) CurrentUser(ctx context.Context) (User, error) {
	var resp userResponse
	if err := c.do(ctx, http.MethodGet, "/user", nil, &resp); err != nil {
		return User{}, err
	}
	if resp.User == nil {
		return User{}, fmt.Errorf("user: incomplete response")
	}
	return *resp.User, nil
}

// ---- lobby ----

func (c *Client) CreateGame(ctx context.Context, name string) (string, error) {
	var resp createGameResponse
	if err := c.do(ctx, http.MethodPost, "/game/create", createGameRequest{Name: name}, &resp); err != nil {
		return "", err
	}
	return resp.gameID()
}

func (c *Client) CreateSingleGame(ctx context.Context) (string, error) {
	var resp createGameResponse
	if err := c.do(ctx, http.MethodPost, "/game/singleplayer", nil, &resp); err != nil {
		return "", err
	}
	return resp.gameID()
}

func (r createGameResponse) gameID() (string, error) {
	if r.GameID != "" {
		return r.GameID, nil
	}
	if r.Game != nil && r.Game.GameID != "" {
		return r.Game.GameID, nil
	}
	return "", fmt.Errorf("create game: missing game id")
}

func (c *Client) Join(ctx context.Context, gameID string) error {
	var resp baseResponse
	return c.do(ctx, http.MethodPost, c.gamePath(gameID, "join"), nil, &resp)
}

// ---- live table ----

// Table 拉取一次完整牌桌快照。
func (c *Client) Table(ctx context.Context, gameID string) (tractor.TableView, error) {
	var resp tableResponse
	if err := c.do(ctx, http.MethodGet, c.gamePath(gameID, "table"), nil, &resp); err != nil {
		return tractor.TableView{}, err
	}
	if resp.Game == nil {
		return tractor.TableView{}, fmt.Errorf("table: missing game payload")
	}
	return tractor.NormalizeView(*resp.Game)
}

func (c *Client) Start(ctx context.Context, gameID string) error {
	var resp baseResponse
	return c.do(ctx, http.MethodPost, c.gamePath(gameID, "start"), nil, &resp)
}

func (c *Client) StartSingle(ctx context.Context, gameID string) error {
	var resp baseResponse
	return c.do(ctx, http.MethodPost, c.gamePath(gameID, "start-single"), nil, &resp)
}

func (c *Client) CallDealer(ctx context.Context, gameID string, suit card.Suit, cardIndices []int) error {
	var resp baseResponse
	return c.do(ctx, http.MethodPost, c.gamePath(gameID, "call-dealer"), callDealerRequest{
		Suit:        suit.Wire(),
		CardIndices: cardIndices,
	}, &resp)
}

func (c *Client) FlipBottom(ctx context.Context, gameID string) error {
	var resp baseResponse
	return c.do(ctx, http.MethodPost, c.gamePath(gameID, "flip-bottom"), nil, &resp)
}

func (c *Client) Discard(ctx context.Context, gameID string, cardIndices []int) error {
	var resp baseResponse
	return c.do(ctx, http.MethodPost, c.gamePath(gameID, "discard-bottom"), discardRequest{CardIndices: cardIndices}, &resp)
}

func (c *Client) CallFriend(ctx context.Context, gameID string, suit card.Suit, value card.Value, position int) error {
	var resp baseResponse
	return c.do(ctx, http.MethodPost, c.gamePath(gameID, "call-friend"), callFriendRequest{
		Suit:     suit.Wire(),
		Value:    value.Wire(),
		Position: position,
	}, &resp)
}

func (c *Client) Play(ctx context.Context, gameID string, cardIndices []int) error {
	var resp baseResponse
	return c.do(ctx, http.MethodPost, c.gamePath(gameID, "play"), playRequest{CardIndices: cardIndices}, &resp)
}

func (c *Client) AIPlay(ctx context.Context, gameID string) error {
	var resp baseResponse
	return c.do(ctx, http.MethodPost, c.gamePath(gameID, "ai-play"), nil, &resp)
}

// ---- history (outside the live sync loop) ----

func (c *Client) Replay(ctx context.Context, gameID string) (replay.WireReplay, error) {
	var resp replayResponse
	if err := c.do(ctx, http.MethodGet, c.gamePath(gameID, "replay"), nil, &resp); err != nil {
		return replay.WireReplay{}, err
	}
	if resp.Replay == nil {
		return replay.WireReplay{}, fmt.Errorf("replay: missing payload")
	}
	return *resp.Replay, nil
}

func (c *Client) Actions(ctx context.Context, gameID string) ([]replay.WireAction, error) {
	var resp actionsResponse
	if err := c.do(ctx, http.MethodGet, c.gamePath(gameID, "actions"), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Actions, nil
}

// Tape 拉齐回放元数据和动作日志，合成校验过的 Tape。
func (c *Client) Tape(ctx context.Context, gameID string) (replay.Tape, error) {
	meta, err := c.Replay(ctx, gameID)
	if err != nil {
		return replay.Tape{}, err
	}
	actions, err := c.Actions(ctx, gameID)
	if err != nil {
		return replay.Tape{}, err
	}
	return replay.NormalizeTape(meta, actions)
}

// ---- plumbing ----

func (c *Client) gamePath(gameID, op string) string {
	return "/game/" + url.PathEscape(gameID) + "/" + op
}

func (c *Client) do(ctx context.Context, method, path string, body any, out statusEnvelope) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s %s: encode request: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.creds != nil {
		token, err := c.creds.Token()
		if err != nil {
			return fmt.Errorf("%s %s: %w", method, path, ErrUnauthorized)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%s %s: read response: %w", method, path, err)
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("%s %s: %w", method, path, ErrUnauthorized)
	case http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", method, path, ErrGameNotFound)
	}

	if err := json.Unmarshal(data, out); err != nil {
		// 形状不对按瞬时故障处理，下个轮询周期即是重试
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}

	if ok, msg := out.ok(); !ok || resp.StatusCode/100 != 2 {
		reqErr := &RequestError{Op: method + " " + path, StatusCode: resp.StatusCode, Message: msg}
		c.log.Debug("request rejected",
			zap.String("op", reqErr.Op),
			zap.Int("status", resp.StatusCode),
			zap.String("message", msg))
		return reqErr
	}
	return nil
}
