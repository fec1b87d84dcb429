package icon

// Icon identifies a symbol in the registry.
type Icon int

const (
	Fail Icon = iota + 1
	Success
	Progress
	Play
	Pause
	Muted
	Volume
	Fullscreen
	Retry
	Key
	Question
	Mark
)

var icons = map[Icon]*iconDef{
	Fail: {
		emoji:   "💀",
		nerd:    "",
		plain:   "X",
		kaomoji: "(×_×)",
		squares: "▣",
	},
	Success: {
		emoji:   "🎉",
		nerd:    "",
		plain:   "OK",
		kaomoji: "(ᵔ◡ᵔ)",
		squares: "■",
	},
	Progress: {
		emoji:   "👾",
		nerd:    "",
		plain:   "~",
		kaomoji: "(・_・)ノ",
		squares: "▢",
	},
	Play: {
		emoji:   "▶️",
		nerd:    "",
		plain:   ">",
		kaomoji: "(▰˘◡˘▰)",
		squares: "▶",
	},
	Pause: {
		emoji:   "⏸️",
		nerd:    "",
		plain:   "||",
		kaomoji: "(－_－)",
		squares: "⏸",
	},
	Muted: {
		emoji:   "🔇",
		nerd:    "",
		plain:   "mute",
		kaomoji: "(︶｡︶)",
		squares: "□",
	},
	Volume: {
		emoji:   "🔊",
		nerd:    "",
		plain:   "vol",
		kaomoji: "(ﾉ◕ヮ◕)ﾉ",
		squares: "▤",
	},
	Fullscreen: {
		emoji:   "🖥️",
		nerd:    "",
		plain:   "[ ]",
		kaomoji: "[◕‿◕]",
		squares: "▦",
	},
	Retry: {
		emoji:   "🔁",
		nerd:    "",
		plain:   "R",
		kaomoji: "(↻_↻)",
		squares: "▧",
	},
	Key: {
		emoji:   "🔑",
		nerd:    "",
		plain:   "*",
		kaomoji: "(⌐■_■)",
		squares: "▩",
	},
	Question: {
		emoji:   "🤔",
		nerd:    "",
		plain:   "?",
		kaomoji: "(・・?)",
		squares: "◩",
	},
	Mark: {
		emoji:   "📌",
		nerd:    "",
		plain:   "*",
		kaomoji: "(☞ﾟ∀ﾟ)☞",
		squares: "◼",
	},
}
