package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"pumpscope/internal/pumpfun"
)

// watchModel is the live curve view: it refetches the bonding curve on a
// fixed interval and renders price, progress and graduation state.
type watchModel struct {
	service  *pumpfun.Service
	mint     string
	interval time.Duration

	spinner  spinner.Model
	progress progress.Model

	report  *pumpfun.CurveReport
	err     error
	updated time.Time
	loading bool
	width   int
}

type curveMsg struct {
	report *pumpfun.CurveReport
	err    error
}

type refreshMsg struct{}

func newWatchModel(service *pumpfun.Service, mint string, interval time.Duration) watchModel {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	pr := progress.New(progress.WithDefaultGradient())
	return watchModel{
		service:  service,
		mint:     mint,
		interval: interval,
		spinner:  sp,
		progress: pr,
		loading:  true,
	}
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchCmd())
}

func (m watchModel) fetchCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		report, err := m.service.GetBondingCurve(ctx, m.mint)
		return curveMsg{report: report, err: err}
	}
}

func (m watchModel) scheduleRefresh() tea.Cmd {
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return refreshMsg{}
	})
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			m.loading = true
			return m, m.fetchCmd()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 60 {
			m.progress.Width = 60
		}

	case curveMsg:
		m.loading = false
		m.updated = time.Now()
		m.report = msg.report
		m.err = msg.err
		return m, m.scheduleRefresh()

	case refreshMsg:
		m.loading = true
		return m, m.fetchCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m watchModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("pumpscope watch") + " " + dimStyle.Render(m.mint) + "\n\n")

	if m.loading && m.report == nil && m.err == nil {
		b.WriteString(m.spinner.View() + " fetching curve state…\n")
		return b.String()
	}

	if m.err != nil {
		b.WriteString(warnStyle.Render("error: "+m.err.Error()) + "\n")
	} else if m.report != nil {
		b.WriteString(row("Price", formatPrice(m.report.PriceSOL)) + "\n")
		b.WriteString(labelStyle.Render("Progress") + m.progress.ViewAs(m.report.BondingProgress) +
			valueStyle.Render(fmt.Sprintf(" %.2f%%", m.report.BondingProgress*100)) + "\n")
		if m.report.Complete {
			b.WriteString(row("Status", goodStyle.Render("graduated")) + "\n")
		} else {
			b.WriteString(row("Status", "on bonding curve") + "\n")
		}
		if m.report.MarketCap > 0 {
			b.WriteString(row("Market cap", fmt.Sprintf("%.4f SOL ($%.2f)", m.report.MarketCap, m.report.USDMarketCap)) + "\n")
		}
	}

	b.WriteString("\n")
	if m.loading {
		b.WriteString(m.spinner.View() + " refreshing")
	} else {
		b.WriteString(dimStyle.Render("updated " + m.updated.Format("15:04:05")))
	}
	b.WriteString(dimStyle.Render("  •  r refresh  •  q quit") + "\n")
	return b.String()
}
