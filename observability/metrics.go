package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the bot
type Metrics struct {
	PointsGranted    *prometheus.CounterVec
	Redemptions      prometheus.Counter
	RedemptionErrors prometheus.Counter
	LuckyRolls       prometheus.Counter
	WeeklyResets     prometheus.Counter
	ActiveVoiceUsers prometheus.GaugeFunc
}

// NewMetrics registers and returns the bot's collectors.
// activeVoiceUsers is sampled on scrape.
func NewMetrics(activeVoiceUsers func() float64) *Metrics {
	return &Metrics{
		PointsGranted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pointsbot_points_granted_total",
			Help: "Points granted through activity accrual, by activity kind.",
		}, []string{"kind"}),
		Redemptions: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pointsbot_redemptions_total",
			Help: "Successful reward redemptions.",
		}),
		RedemptionErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pointsbot_redemption_errors_total",
			Help: "Redemption attempts rejected by validation.",
		}),
		LuckyRolls: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pointsbot_lucky_rolls_total",
			Help: "Completed lucky rolls.",
		}),
		WeeklyResets: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pointsbot_weekly_resets_total",
			Help: "Completed weekly point resets, per guild.",
		}),
		ActiveVoiceUsers: promauto.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "pointsbot_active_voice_users",
			Help: "Users currently earning voice activity points.",
		}, activeVoiceUsers),
	}
}
