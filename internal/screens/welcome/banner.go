package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/revizio/internal/ui/theme"
)

const bannerArt = `
 ██████╗ ███████╗██╗   ██╗██╗███████╗██╗ ██████╗
 ██╔══██╗██╔════╝██║   ██║██║╚══███╔╝██║██╔═══██╗
 ██████╔╝█████╗  ██║   ██║██║  ███╔╝ ██║██║   ██║
 ██╔══██╗██╔══╝  ╚██╗ ██╔╝██║ ███╔╝  ██║██║   ██║
 ██║  ██║███████╗ ╚████╔╝ ██║███████╗██║╚██████╔╝
 ╚═╝  ╚═╝╚══════╝  ╚═══╝  ╚═╝╚══════╝╚═╝ ╚═════╝`

const bannerCompact = "R E V I Z I O"

// RenderBanner returns the banner in the primary color, or a one-line
// fallback below 54 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 54 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
