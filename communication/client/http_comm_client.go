package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"throne/communication"
	"throne/engine"
	"throne/game"
	"throne/gamemaster"

	"github.com/google/uuid"
)

// Client is a BattleHost backed by a remote battle server.
type Client struct {
	serverURL string
	http      *http.Client
}

func NewClient(serverURL string) *Client {
	return &Client{
		serverURL: serverURL,
		http:      &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Attack(ctx context.Context, attackerID, defenderID, turns int) (gamemaster.LogEntry, error) {
	var entry gamemaster.LogEntry
	err := c.do(ctx, http.MethodPost, "/api/attack", map[string]int{
		"attackerId": attackerID,
		"defenderId": defenderID,
		"turns":      turns,
	}, &entry)
	return entry, err
}

func (c *Client) Simulate(ctx context.Context, attacker, defender game.Combatant, turns int, seed *uint64) (*engine.BattleResult, error) {
	body := struct {
		Attacker game.Combatant `json:"attacker"`
		Defender game.Combatant `json:"defender"`
		Turns    int            `json:"turns"`
		Seed     *uint64        `json:"seed,omitempty"`
	}{attacker, defender, turns, seed}
	var result engine.BattleResult
	if err := c.do(ctx, http.MethodPost, "/api/simulate", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Battle(ctx context.Context, id uuid.UUID) (gamemaster.LogEntry, error) {
	var entry gamemaster.LogEntry
	err := c.do(ctx, http.MethodGet, "/api/battles/"+id.String(), nil, &entry)
	return entry, err
}

func (c *Client) Retest(ctx context.Context, id uuid.UUID) (*gamemaster.RetestResult, error) {
	var result gamemaster.RetestResult
	if err := c.do(ctx, http.MethodPost, "/api/battles/"+id.String()+"/retest", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.serverURL+path, body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var failure struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		json.NewDecoder(resp.Body).Decode(&failure)
		return fmt.Errorf("%w: %s", failureError(resp.StatusCode, failure.Code), failure.Error)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// failureError maps a failure code, or failing that the status, back onto the
// host's error taxonomy.
func failureError(status int, code string) error {
	switch code {
	case communication.CodeSelfAttack:
		return gamemaster.ErrSelfAttack
	case communication.CodeInvalidArgument:
		return game.ErrInvalidArgument
	case communication.CodeInvalidState:
		return game.ErrInvalidState
	case communication.CodeNotFound:
		return gamemaster.ErrNotFound
	}
	switch status {
	case http.StatusBadRequest:
		return game.ErrInvalidArgument
	case http.StatusUnprocessableEntity:
		return game.ErrInvalidState
	case http.StatusNotFound:
		return gamemaster.ErrNotFound
	default:
		return fmt.Errorf("server returned %d", status)
	}
}

var _ communication.BattleHost = (*Client)(nil)
