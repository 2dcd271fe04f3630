package clickhouse

import (
	"time"

	"github.com/golang/mock/gomock"
	"github.com/goodnatureofminers/subnameclaim-backend/internal/model"
)

func (s *RepositorySuite) TestInsertAttemptEvents() {
	now := time.Now().UTC().Truncate(time.Millisecond)
	events := []model.AttemptEvent{
		testEvent(model.AttemptWalletPending, now),
		testEvent(model.AttemptChainPending, now.Add(time.Second)),
		testEvent(model.AttemptConfirmed, now.Add(2*time.Second)),
	}

	s.metrics.EXPECT().Observe("insert_attempt_events", gomock.Nil(), gomock.Any()).Times(1)

	s.Require().NoError(s.repo.InsertAttemptEvents(s.ctx, events))
	s.Equal(uint64(len(events)), s.storedEvents())
}

func (s *RepositorySuite) TestAttemptEventsNewestFirst() {
	now := time.Now().UTC().Truncate(time.Millisecond)
	mine := []model.AttemptEvent{
		testEvent(model.AttemptWalletPending, now),
		testEvent(model.AttemptChainPending, now.Add(time.Second)),
		testEvent(model.AttemptFailed, now.Add(2*time.Second)),
	}
	mine[2].Error = "execution reverted: label taken"
	other := testEvent(model.AttemptConfirmed, now.Add(3*time.Second))
	other.Account = "0x00000000000000000000000000000000000000BB"

	s.metrics.EXPECT().Observe("insert_attempt_events", gomock.Nil(), gomock.Any()).Times(1)
	s.metrics.EXPECT().Observe("attempt_events", gomock.Nil(), gomock.Any()).Times(2)

	s.Require().NoError(s.repo.InsertAttemptEvents(s.ctx, append(mine, other)))

	got, err := s.repo.AttemptEvents(s.ctx, mine[0].Account, 10)
	s.Require().NoError(err)
	s.Require().Len(got, 3)
	s.Equal(model.AttemptFailed, got[0].Status)
	s.Equal("execution reverted: label taken", got[0].Error)
	s.Equal(model.AttemptWalletPending, got[2].Status)
	s.True(got[2].OccurredAt.Equal(now))

	limited, err := s.repo.AttemptEvents(s.ctx, mine[0].Account, 1)
	s.Require().NoError(err)
	s.Require().Len(limited, 1)
	s.Equal(model.AttemptFailed, limited[0].Status)
}

func (s *RepositorySuite) TestPing() {
	s.metrics.EXPECT().Observe("ping", gomock.Nil(), gomock.Any()).Times(1)
	s.Require().NoError(s.repo.Ping(s.ctx))
}
