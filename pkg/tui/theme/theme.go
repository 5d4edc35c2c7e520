package theme

import "github.com/charmbracelet/lipgloss"

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	Header  HeaderTheme
	Section SectionTheme
	Item    ItemTheme
	Footer  FooterTheme
	Toast   ToastTheme
	Modal   ModalTheme
}

// HeaderTheme styles the top line with the summary counts.
type HeaderTheme struct {
	Title lipgloss.Style
	Stats lipgloss.Style
	Alert lipgloss.Style
}

// SectionTheme styles bucket headings.
type SectionTheme struct {
	Title     lipgloss.Style
	Count     lipgloss.Style
	Collapsed lipgloss.Style
	Selected  lipgloss.Style
}

// ItemTheme styles dashboard rows.
type ItemTheme struct {
	Normal   lipgloss.Style
	Selected lipgloss.Style
	Pending  lipgloss.Style
	Date     lipgloss.Style
	Overdue  lipgloss.Style
	Flags    lipgloss.Style
	Empty    lipgloss.Style
}

// FooterTheme groups styles used by the bottom help and status line.
type FooterTheme struct {
	Help   lipgloss.Style
	Status lipgloss.Style
}

// ToastTheme styles transient mutation notices.
type ToastTheme struct {
	Success lipgloss.Style
	Failure lipgloss.Style
}

// ModalTheme styles the reject reason prompt.
type ModalTheme struct {
	Frame lipgloss.Style
	Title lipgloss.Style
	Body  lipgloss.Style
	Error lipgloss.Style
}

// Default returns the built-in theme used across the UI.
func Default() Theme {
	selected := lipgloss.NewStyle().
		Foreground(lipgloss.Color("230")).
		Background(lipgloss.Color("62"))

	return Theme{
		Header: HeaderTheme{
			Title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
			Stats: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			Alert: lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		},
		Section: SectionTheme{
			Title:     lipgloss.NewStyle().Bold(true).Underline(true),
			Count:     lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			Collapsed: lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
			Selected:  selected.Bold(true),
		},
		Item: ItemTheme{
			Normal:   lipgloss.NewStyle(),
			Selected: selected,
			Pending:  lipgloss.NewStyle().Faint(true),
			Date:     lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			Overdue:  lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
			Flags:    lipgloss.NewStyle().Foreground(lipgloss.Color("80")),
			Empty:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		},
		Footer: FooterTheme{
			Help:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		},
		Toast: ToastTheme{
			Success: lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
			Failure: lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
		},
		Modal: ModalTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				Padding(0, 1),
			Title: lipgloss.NewStyle().Bold(true),
			Body:  lipgloss.NewStyle(),
			Error: lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		},
	}
}
