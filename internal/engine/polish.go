package engine

// PortalBanner prefixes readings served inside the 11:11 minute.
const PortalBanner = "✨ 11:11 ✨ "

const (
	cinematicChance  = 0.06
	timeFlavorChance = 0.04
	softenerWeight   = 0.1
)

var cinematicSuffixes = []string{
	"And something within you already sensed this all along.",
	"Though this is only the beginning.",
	"There’s a quiet shift happening beneath the surface.",
	"The next step is closer than you realize.",
	"This is where things start to change.",
	"A deeper truth is waiting just beyond this moment.",
	"There’s more unfolding than you can see right now.",
}

func timeSuffixes(hour int) []string {
	switch {
	case hour < 6:
		return []string{
			"There’s a quiet stillness guiding you beneath the surface.",
			"Something gently stirs in the quiet of the night.",
		}
	case hour < 12:
		return []string{
			"A small clarity is beginning to take shape.",
			"You may notice subtle guidance emerging with the morning light.",
		}
	case hour < 17:
		return []string{
			"Your energy is aligning with movement and direction.",
			"Momentum is gathering beneath the choices you’re making.",
		}
	default:
		return []string{
			"The evening brings softer truths you’re ready to acknowledge.",
			"Something within you is settling into understanding.",
		}
	}
}

var softeners = map[string]string{
	"fear":     "There’s a collective heaviness in the air, and you might be feeling some of it.",
	"clarity":  "The world is shifting toward clarity, and you’re aligning with that movement.",
	"hope":     "There’s a quiet rise of hope everywhere, and you’re part of that wave.",
	"pressure": "A lot of people feel pressed lately, so be gentle with yourself in this moment.",
	"longing":  "There’s a shared longing in many hearts right now, including yours.",
	"release":  "A global release is happening, slowly but noticeably.",
}

// polish applies the presentation layers in order: portal banner, rare
// cinematic and time-of-day suffixes, then the global softener.
func (e *Engine) polish(text string, portal bool, hour int, global GlobalTrend) string {
	if portal {
		text = PortalBanner + text
	}
	if e.float64() < cinematicChance {
		text += " " + cinematicSuffixes[e.intN(len(cinematicSuffixes))]
	}
	if e.float64() < timeFlavorChance {
		list := timeSuffixes(hour)
		text += " " + list[e.intN(len(list))]
	}
	return soften(text, global)
}

func soften(text string, global GlobalTrend) string {
	if global.Weight <= softenerWeight {
		return text
	}
	if s, ok := softeners[global.DominantEmotion]; ok {
		return s + " " + text
	}
	return text
}
