package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/replayhq/replay/internal/domain"
)

func TestQueryDatePtr(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		query   string
		want    *time.Time
		wantErr bool
	}{
		{name: "absent param yields nil", query: "", want: nil},
		{
			name:  "valid date parses",
			query: "?startDate=2026-03-01",
			want:  timePtr(time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)),
		},
		{name: "blank value yields nil", query: "?startDate=%20", want: nil},
		{name: "wrong layout rejected", query: "?startDate=03/01/2026", wantErr: true},
		{name: "non-date rejected", query: "?startDate=soon", wantErr: true},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var got *time.Time
			var gotErr error

			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				got, gotErr = queryDatePtr(c, "startDate")
				return c.SendStatus(fiber.StatusOK)
			})

			if _, err := app.Test(httptest.NewRequest(http.MethodGet, "/"+tc.query, nil)); err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}

			if tc.wantErr {
				if !errors.Is(gotErr, domain.ErrValidation) {
					t.Fatalf("error = %v, want ErrValidation", gotErr)
				}
				return
			}
			if gotErr != nil {
				t.Fatalf("error = %v, want nil", gotErr)
			}
			if tc.want == nil {
				if got != nil {
					t.Fatalf("value = %v, want nil", got)
				}
				return
			}
			if got == nil || !got.Equal(*tc.want) {
				t.Fatalf("value = %v, want %v", got, tc.want)
			}
		})
	}
}

func timePtr(t time.Time) *time.Time { return &t }
