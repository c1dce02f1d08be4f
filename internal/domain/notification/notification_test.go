package notification

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNotification(t *testing.T) {
	t.Run("should create unread notification", func(t *testing.T) {
		n, err := NewNotification(uuid.New(), TypeProposalNew, "New proposal received", "A freelancer bid on your project", "/projects/x/proposals")

		require.NoError(t, err)
		assert.False(t, n.Read)
		assert.Equal(t, TypeProposalNew, n.Type)
		assert.Equal(t, "/projects/x/proposals", n.Link)
	})

	t.Run("link is optional", func(t *testing.T) {
		n, err := NewNotification(uuid.New(), TypeProjectNew, "New project posted", "A project is open for proposals", "")

		require.NoError(t, err)
		assert.Empty(t, n.Link)
	})

	t.Run("should reject missing recipient", func(t *testing.T) {
		_, err := NewNotification(uuid.Nil, TypeProposalNew, "Title", "Content", "")

		assert.Error(t, err)
	})

	t.Run("should reject unknown type", func(t *testing.T) {
		_, err := NewNotification(uuid.New(), Type("carrier_pigeon"), "Title", "Content", "")

		assert.Error(t, err)
	})

	t.Run("should reject empty title or content", func(t *testing.T) {
		_, err := NewNotification(uuid.New(), TypeProposalNew, "", "Content", "")
		assert.Error(t, err)

		_, err = NewNotification(uuid.New(), TypeProposalNew, "Title", "", "")
		assert.Error(t, err)
	})
}
