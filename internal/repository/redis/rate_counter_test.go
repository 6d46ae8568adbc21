package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateCounter_Hit(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mock    func(mock redismock.ClientMock)
		want    int64
		wantErr bool
	}{
		{
			name: "first hit starts the window",
			mock: func(mock redismock.ClientMock) {
				mock.ExpectIncr("ratelimit:1.2.3.4").SetVal(1)
				mock.ExpectExpire("ratelimit:1.2.3.4", time.Minute).SetVal(true)
			},
			want: 1,
		},
		{
			name: "later hit does not extend the window",
			mock: func(mock redismock.ClientMock) {
				mock.ExpectIncr("ratelimit:1.2.3.4").SetVal(7)
			},
			want: 7,
		},
		{
			name: "incr error",
			mock: func(mock redismock.ClientMock) {
				mock.ExpectIncr("ratelimit:1.2.3.4").SetErr(errors.New("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := redismock.NewClientMock()
			tt.mock(mock)

			got, err := NewRateCounter(db, "").Hit(ctx, "1.2.3.4", time.Minute)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
