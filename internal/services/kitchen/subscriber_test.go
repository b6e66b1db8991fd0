package kitchen

import (
	"strings"
	"testing"

	"restaurant-backend/internal/models"
)

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func TestFormatEvent(t *testing.T) {
	tests := []struct {
		name  string
		event models.OrderEvent
		want  []string
	}{
		{
			name: "created dine-in",
			event: models.OrderEvent{
				Event:   "order.created",
				OrderID: 7,
				Kind:    models.KindOrder,
				Status:  models.StatusAccepted,
				Date:    "10.03.2025 14:00",
				TableID: intPtr(3),
				Items: []models.OrderEventItem{
					{Name: "Pizza", Count: 2},
					{Name: "Soup", Count: 1},
				},
			},
			want: []string{"NEW order #7", "table 3", "2x Pizza", "1x Soup"},
		},
		{
			name: "created delivery",
			event: models.OrderEvent{
				Event:   "order.created",
				OrderID: 8,
				Kind:    models.KindOrder,
				Status:  models.StatusAccepted,
				Date:    "10.03.2025 14:05",
				Address: strPtr("Baker St 221b"),
				Items:   []models.OrderEventItem{{Name: "Pizza", Count: 1}},
			},
			want: []string{"NEW order #8", "delivery to Baker St 221b"},
		},
		{
			name: "status change",
			event: models.OrderEvent{
				Event:     "order.status_changed",
				OrderID:   7,
				Kind:      models.KindOrder,
				Status:    models.StatusPreparing,
				OldStatus: models.StatusAccepted,
				Date:      "10.03.2025 14:10",
				TableID:   intPtr(3),
			},
			want: []string{"Order #7", "Accepted -> Preparing"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatEvent(&tt.event)
			for _, fragment := range tt.want {
				if !strings.Contains(got, fragment) {
					t.Errorf("formatEvent() = %q, missing %q", got, fragment)
				}
			}
		})
	}
}
