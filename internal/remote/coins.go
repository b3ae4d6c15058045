package remote

import (
	"context"
	"net/http"

	"closet-sync/internal/models"
)

func (c *Client) Balance(ctx context.Context) (int, error) {
	var out models.BalanceResponse
	if err := c.do(ctx, "Balance", http.MethodGet, "/coins", nil, &out); err != nil {
		return 0, err
	}
	return out.Balance, nil
}

// SpendCoins debits amount and returns the server's balance afterwards.
func (c *Client) SpendCoins(ctx context.Context, amount int) (int, error) {
	var out models.BalanceResponse
	if err := c.do(ctx, "SpendCoins", http.MethodPost, "/coins/spend", models.CoinsRequest{Amount: amount}, &out); err != nil {
		return 0, err
	}
	return out.Balance, nil
}

// AddCoins credits amount and returns the server's balance afterwards.
func (c *Client) AddCoins(ctx context.Context, amount int) (int, error) {
	var out models.BalanceResponse
	if err := c.do(ctx, "AddCoins", http.MethodPost, "/coins/add", models.CoinsRequest{Amount: amount}, &out); err != nil {
		return 0, err
	}
	return out.Balance, nil
}
