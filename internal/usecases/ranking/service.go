package ranking

import (
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/traffic-report/internal/config"
	"github.com/vfg2006/traffic-report/internal/domain"
	"github.com/vfg2006/traffic-report/pkg/utils"
)

type RankingService interface {
	Rank(browsers []domain.BrowserAggregate) []domain.BrowserRankingItem
}

type BrowserRankingService struct {
	limit int
}

func NewBrowserRankingService(cfg *config.Config) RankingService {
	limit := cfg.Report.TopBrowsersLimit
	if limit <= 0 || limit > config.MaxTopBrowsers {
		limit = config.MaxTopBrowsers
	}

	return &BrowserRankingService{
		limit: limit,
	}
}

// Rank ordena os navegadores por sessões (empate pelo nome) e mantém apenas os primeiros
func (s *BrowserRankingService) Rank(browsers []domain.BrowserAggregate) []domain.BrowserRankingItem {
	sorted := make([]domain.BrowserAggregate, len(browsers))
	copy(sorted, browsers)

	var totalSessions int64
	for _, b := range sorted {
		totalSessions += b.Sessions
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Sessions != sorted[j].Sessions {
			return sorted[i].Sessions > sorted[j].Sessions
		}
		return sorted[i].Browser < sorted[j].Browser
	})

	if len(sorted) > s.limit {
		sorted = sorted[:s.limit]
	}

	ranking := make([]domain.BrowserRankingItem, 0, len(sorted))
	for i, b := range sorted {
		item := domain.BrowserRankingItem{
			Position:         i + 1,
			BrowserAggregate: b,
		}
		if totalSessions > 0 {
			item.SessionShare = utils.RoundWithTwoDecimalPlace(float64(b.Sessions) / float64(totalSessions) * 100)
		}
		ranking = append(ranking, item)
	}

	logrus.WithFields(logrus.Fields{
		"browsers": len(browsers),
		"ranked":   len(ranking),
	}).Info("Ranking de navegadores calculado")

	return ranking
}
