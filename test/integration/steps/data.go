package steps

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/recommender/internal/integration/persistence/model"
)

// registerSetupSteps registers authentication and seeding steps.
func registerSetupSteps(ctx *godog.ScenarioContext) {
	ctx.Given(`^I am authenticated as "([^"]*)"$`, iAmAuthenticatedAs)
	ctx.Given(`^my access token has expired$`, myAccessTokenHasExpired)
	ctx.Given(`^I have the following transactions:$`, iHaveTheFollowingTransactions)
	ctx.Given(`^another user has the following transactions:$`, anotherUserHasTheFollowingTransactions)
	ctx.Given(`^the cache is unavailable$`, theCacheIsUnavailable)
}

// registerStorageSteps registers database and cache assertions.
func registerStorageSteps(ctx *godog.ScenarioContext) {
	ctx.Then(`^the db should contain (\d+) objects in the "([^"]*)" table$`, theDbShouldContainObjectsInTheTable)
	ctx.Then(`^the cache should contain (\d+) entr(?:y|ies)$`, theCacheShouldContainEntries)
}

func iAmAuthenticatedAs(ctx context.Context, email string) error {
	return authenticate(ctx, email, time.Hour)
}

func myAccessTokenHasExpired(ctx context.Context) error {
	return authenticate(ctx, "expired@example.com", -time.Minute)
}

func authenticate(ctx context.Context, email string, ttl time.Duration) error {
	tc := GetTestContext(ctx)
	if tc == nil || tc.injector == nil {
		return fmt.Errorf("test server is not running")
	}

	if tc.currentUserID == uuid.Nil {
		tc.currentUserID = uuid.New()
	}
	token, err := tc.injector.TokenService.GenerateAccessToken(ctx, tc.currentUserID, email, ttl)
	if err != nil {
		return fmt.Errorf("failed to issue access token: %w", err)
	}
	tc.accessToken = token
	return nil
}

func iHaveTheFollowingTransactions(ctx context.Context, table *godog.Table) error {
	tc := GetTestContext(ctx)
	if tc == nil || tc.currentUserID == uuid.Nil {
		return fmt.Errorf("no authenticated user to own the transactions")
	}
	return tc.seedTransactions(tc.currentUserID, table)
}

func anotherUserHasTheFollowingTransactions(ctx context.Context, table *godog.Table) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}
	return tc.seedTransactions(uuid.New(), table)
}

// seedTransactions inserts one row per table row. Columns: date, amount, category,
// and optionally type (default expense), description and hidden.
func (tc *TestContext) seedTransactions(userID uuid.UUID, table *godog.Table) error {
	if len(table.Rows) < 2 {
		return fmt.Errorf("transactions table needs a header and at least one row")
	}

	header := make([]string, len(table.Rows[0].Cells))
	for i, cell := range table.Rows[0].Cells {
		header[i] = strings.ToLower(strings.TrimSpace(cell.Value))
	}

	now := time.Now().UTC()
	for _, row := range table.Rows[1:] {
		values := make(map[string]string, len(header))
		for i, cell := range row.Cells {
			values[header[i]] = strings.TrimSpace(cell.Value)
		}

		date, err := time.Parse("2006-01-02", values["date"])
		if err != nil {
			return fmt.Errorf("invalid date %q: %w", values["date"], err)
		}
		amount, err := decimal.NewFromString(values["amount"])
		if err != nil {
			return fmt.Errorf("invalid amount %q: %w", values["amount"], err)
		}
		txType := values["type"]
		if txType == "" {
			txType = "expense"
		}
		hidden := false
		if values["hidden"] != "" {
			if hidden, err = strconv.ParseBool(values["hidden"]); err != nil {
				return fmt.Errorf("invalid hidden flag %q: %w", values["hidden"], err)
			}
		}

		var categoryID *uuid.UUID
		if name := values["category"]; name != "" {
			id, err := tc.categoryFor(userID, name, txType)
			if err != nil {
				return err
			}
			categoryID = &id
		}

		transaction := &model.TransactionModel{
			ID:          uuid.New(),
			UserID:      userID,
			Date:        date,
			Description: values["description"],
			Amount:      amount,
			Type:        txType,
			CategoryID:  categoryID,
			IsHidden:    hidden,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tc.db.DbConn.Create(transaction).Error; err != nil {
			return fmt.Errorf("failed to seed transaction: %w", err)
		}
	}
	return nil
}

// categoryFor returns the owner's category with this name, creating it on first use.
func (tc *TestContext) categoryFor(ownerID uuid.UUID, name, categoryType string) (uuid.UUID, error) {
	key := ownerID.String() + "/" + name
	if id, ok := tc.categories[key]; ok {
		return id, nil
	}

	now := time.Now().UTC()
	category := &model.CategoryModel{
		ID:        uuid.New(),
		Name:      name,
		OwnerID:   ownerID,
		Type:      categoryType,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tc.db.DbConn.Create(category).Error; err != nil {
		return uuid.Nil, fmt.Errorf("failed to seed category: %w", err)
	}

	tc.categories[key] = category.ID
	return category.ID, nil
}

func theCacheIsUnavailable(ctx context.Context) (context.Context, error) {
	tc := GetTestContext(ctx)
	if tc == nil {
		return ctx, fmt.Errorf("test context not found")
	}

	tc.redis.Stop()
	tc.redisStopped = true
	return ctx, nil
}

func theDbShouldContainObjectsInTheTable(ctx context.Context, quantity int, table string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}

	count, err := tc.db.Count(table)
	if err != nil {
		return err
	}
	if count != int64(quantity) {
		return fmt.Errorf("expected %d objects in '%s', got %d", quantity, table, count)
	}
	return nil
}

func theCacheShouldContainEntries(ctx context.Context, quantity int) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}

	keys := tc.redis.Keys()
	if len(keys) != quantity {
		return fmt.Errorf("expected %d cache entries, got %d: %v", quantity, len(keys), keys)
	}
	return nil
}
