package usecase

import (
	"fmt"
	"strings"
)

// UsageRepository считает уникальных пользователей по режимам генерации.
type UsageRepository interface {
	Hit(mode string, userID int64) error
	Counts() (map[string]int, error)
}

type UsageUsecase struct {
	repo  UsageRepository
	order []string
}

func NewUsageUsecase(repo UsageRepository) *UsageUsecase {
	return &UsageUsecase{
		repo: repo,
		order: []string{
			"notes",
			"explain",
			"mcq",
			"summary",
			"solve",
			"quiz",
			"current",
			"default",
		},
	}
}

func (u *UsageUsecase) Reach(userID int64, mode string) {
	if mode == "" {
		return
	}
	_ = u.repo.Hit(mode, userID)
}

// Chart — текстовый отчёт по режимам для владельца
func (u *UsageUsecase) Chart() string {
	counts, err := u.repo.Counts()
	if err != nil {
		return "Usage stats unavailable: chat store is down."
	}
	if len(counts) == 0 {
		return "No usage recorded yet"
	}
	var max int
	for _, mode := range u.order {
		if counts[mode] > max {
			max = counts[mode]
		}
	}
	var b strings.Builder
	b.WriteString("Usage by mode (unique users):\n")
	for _, mode := range u.order {
		c := counts[mode]
		fmt.Fprintf(&b, "- %s: %d %s\n", modeLabel(mode), c, bar20(c, max))
	}
	return b.String()
}

// GraphData возвращает метки и значения по порядку режимов для построения графика
func (u *UsageUsecase) GraphData() ([]string, []int, error) {
	counts, err := u.repo.Counts()
	if err != nil {
		return nil, nil, err
	}
	labels := make([]string, 0, len(u.order))
	values := make([]int, 0, len(u.order))
	for _, mode := range u.order {
		labels = append(labels, modeLabel(mode))
		values = append(values, counts[mode])
	}
	return labels, values, nil
}

func bar20(val, max int) string {
	if max <= 0 {
		return ""
	}
	filled := (20 * val) / max
	if filled < 0 {
		filled = 0
	}
	if filled > 20 {
		filled = 20
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", 20-filled) + "]"
}

func modeLabel(mode string) string {
	switch mode {
	case "current":
		return "current affairs"
	case "default":
		return "free chat"
	default:
		return mode
	}
}
