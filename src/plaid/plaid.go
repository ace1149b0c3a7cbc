package plaid

import (
	"context"
	"fmt"
	"moneywise-server/src/models"

	"github.com/plaid/plaid-go/v41/plaid"
	"github.com/shopspring/decimal"
)

const clientName = "MoneyWise"

// Client links bank accounts through Plaid.
type Client struct {
	api *plaid.APIClient
}

func NewPlaidClient(clientID, secret, env string) (*Client, error) {
	configuration := plaid.NewConfiguration()
	configuration.AddDefaultHeader("PLAID-CLIENT-ID", clientID)
	configuration.AddDefaultHeader("PLAID-SECRET", secret)

	switch env {
	case "sandbox":
		configuration.UseEnvironment(plaid.Sandbox)
	case "production":
		configuration.UseEnvironment(plaid.Production)
	default:
		return nil, fmt.Errorf("invalid Plaid environment: %s", env)
	}

	return &Client{api: plaid.NewAPIClient(configuration)}, nil
}

func (c *Client) CreateLinkToken(ctx context.Context, userID string) (string, error) {
	user := plaid.LinkTokenCreateRequestUser{
		ClientUserId: userID,
	}
	request := plaid.NewLinkTokenCreateRequest(
		clientName,
		"en",
		[]plaid.CountryCode{plaid.COUNTRYCODE_US},
	)
	request.SetUser(user)
	request.SetProducts([]plaid.Products{plaid.PRODUCTS_TRANSACTIONS})
	resp, _, err := c.api.PlaidApi.LinkTokenCreate(ctx).LinkTokenCreateRequest(*request).Execute()
	if err != nil {
		return "", fmt.Errorf("link token creation failed: %w", err)
	}
	return resp.GetLinkToken(), nil
}

func (c *Client) ExchangePublicToken(ctx context.Context, publicToken string) (string, string, error) {
	request := plaid.NewItemPublicTokenExchangeRequest(publicToken)
	resp, _, err := c.api.PlaidApi.ItemPublicTokenExchange(ctx).ItemPublicTokenExchangeRequest(*request).Execute()
	if err != nil {
		return "", "", fmt.Errorf("public token exchange failed: %w", err)
	}
	return resp.GetAccessToken(), resp.GetItemId(), nil
}

func (c *Client) GetAccounts(ctx context.Context, accessToken string) ([]models.LinkedAccount, error) {
	request := plaid.NewAccountsGetRequest(accessToken)
	resp, _, err := c.api.PlaidApi.AccountsGet(ctx).AccountsGetRequest(*request).Execute()
	if err != nil {
		return nil, fmt.Errorf("accounts fetch failed: %w", err)
	}

	accounts := make([]models.LinkedAccount, 0, len(resp.GetAccounts()))
	for _, acc := range resp.GetAccounts() {
		balances := acc.GetBalances()
		currency := balances.GetIsoCurrencyCode()
		if currency == "" {
			currency = "USD"
		}
		accounts = append(accounts, models.LinkedAccount{
			ProviderAccountID: acc.GetAccountId(),
			Name:              acc.GetName(),
			Type:              string(acc.GetType()),
			Currency:          currency,
			Balance:           decimal.NewFromFloat(balances.GetCurrent()),
		})
	}
	return accounts, nil
}
