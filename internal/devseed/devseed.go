// Package devseed populates an empty store with fake accounts and notes for
// development.
package devseed

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/stolasapp/inotebook/internal/notebook"
	"github.com/stolasapp/inotebook/internal/storage"
)

// EnvSeed fixes the generated data across runs.
const EnvSeed = "INOTEBOOK_DEV_SEED"

// Password is shared by every seeded account.
const Password = "development"

// Corpus generation constants.
const (
	numAccounts   = 5
	minNotes      = 3
	maxExtraNotes = 60 // 3-62 notes per account; some accounts span several pages
	minSentences  = 1
	maxExtraSent  = 5 // 1-5 sentences per note
	minWords      = 4
	maxExtraWords = 12 // 4-15 words per sentence
)

// Seed returns the seed from the INOTEBOOK_DEV_SEED environment variable, or a
// random value if not set.
func Seed() uint64 {
	if env := os.Getenv(EnvSeed); env != "" {
		if seed, err := strconv.ParseUint(env, 10, 64); err == nil {
			return seed
		}
	}
	return rand.Uint64() //nolint:gosec // intentionally weak random for test data
}

// Email is the login of the i-th seeded account.
func Email(i int) string {
	return fmt.Sprintf("dev%d@inotebook.test", i+1)
}

// Populate creates fake accounts and notes through svc if accounts is empty.
// It reports whether anything was created.
func Populate(
	ctx context.Context,
	logger *slog.Logger,
	accounts storage.Accounts,
	svc *notebook.Service,
	seed uint64,
) (bool, error) {
	count, err := accounts.CountAccounts(ctx)
	if err != nil {
		return false, err
	} else if count > 0 {
		logger.DebugContext(ctx, "store not empty, skipping dev seed", slog.Int64("accounts", count))
		return false, nil
	}

	faker := gofakeit.New(seed)
	for i := range numAccounts {
		session, err := svc.CreateAccount(ctx, notebook.NewAccount{
			Email:     Email(i),
			Password:  Password,
			FirstName: faker.FirstName(),
			LastName:  faker.LastName(),
			Mobile:    faker.Numerify("##########"),
		})
		if err != nil {
			return false, fmt.Errorf("failed to seed account %d: %w", i, err)
		}

		numNotes := minNotes + faker.IntN(maxExtraNotes)
		for range numNotes {
			if _, err = svc.CreateNote(ctx, session.Account.ID, generateNote(faker)); err != nil {
				return false, fmt.Errorf("failed to seed note: %w", err)
			}
		}

		logger.InfoContext(ctx, "seeded dev account",
			slog.String("email", session.Account.Email),
			slog.Uint64("id", session.Account.ID),
			slog.Int("notes", numNotes),
		)
	}
	return true, nil
}

func generateNote(faker *gofakeit.Faker) string {
	numSentences := minSentences + faker.IntN(maxExtraSent)
	sentences := make([]string, numSentences)
	for i := range numSentences {
		sentences[i] = faker.Sentence(minWords + faker.IntN(maxExtraWords))
	}
	return strings.Join(sentences, " ")
}
