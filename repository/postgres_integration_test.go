//go:build integration

package repository

import (
	"context"
	"log"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/db"
	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

var pgDB *gorm.DB

func TestMain(m *testing.M) {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("messaging"),
		postgres.WithUsername("messaging"),
		postgres.WithPassword("password"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		log.Printf("failed to start container: %s", err)
		os.Exit(1)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		log.Fatalf("failed to get connection string: %v", err)
	}

	pgDB, err = db.Open(connStr)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}

	code := m.Run()

	if err := container.Terminate(ctx); err != nil {
		log.Printf("failed to terminate container: %s", err)
	}
	os.Exit(code)
}

func TestPostgres_FindOrCreateIsSingleton(t *testing.T) {
	convs := NewConversationRepository(pgDB)
	ctx := context.Background()

	const callers = 32
	ids := make([]uint, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a, b := uint(101), uint(202)
			if i%2 == 1 {
				a, b = b, a
			}
			conv, err := convs.FindOrCreate(ctx, a, b)
			if assert.NoError(t, err) {
				ids[i] = conv.ID
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}

	var n int64
	require.NoError(t, pgDB.Model(&models.Conversation{}).Where("pair_key = ?", "101-202").Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestPostgres_ClaimMediaPurgeOnce(t *testing.T) {
	convs := NewConversationRepository(pgDB)
	msgs := NewMessageRepository(pgDB)
	ctx := context.Background()

	conv, err := convs.FindOrCreate(ctx, 303, 404)
	require.NoError(t, err)
	msg := &models.Message{
		ConversationID:     conv.ID,
		SenderID:           303,
		ReceiverID:         404,
		MediaURL:           "/uploads/pg.png",
		DeletedForSender:   true,
		DeletedForReceiver: true,
		CreatedAt:          time.Now(),
	}
	require.NoError(t, msgs.Create(ctx, msg))

	var (
		mu     sync.Mutex
		claims int
		wg     sync.WaitGroup
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := msgs.ClaimMediaPurge(ctx, msg.ID)
			if assert.NoError(t, err) && ok {
				mu.Lock()
				claims++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, claims)
}
