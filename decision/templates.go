package decision

import (
	"github.com/mimetic-labs/resonance/core"
	"github.com/mimetic-labs/resonance/utils"
)

// contentPools hold one-line templates per content-bearing action.
var contentPools = map[core.ActionType][]string{
	core.ActionComment: {
		"Interesting but I have questions...",
		"Source? I'm gonna need more info on this",
		"This could be huge. Getting in early",
		"What's the price point though?",
		"Anyone actually tried this?",
		"Finally! I've been waiting for something like this",
		"Not sure this is for me but curious where it goes",
	},
	core.ActionQuoteShare: {
		"Obsessed with this! My followers need to see this",
		"This is giving exactly what it needs to give",
		"Sharing for the discourse, not an endorsement",
		"Okay this is actually kind of clever",
		"Calling it now, this will be everywhere next week",
	},
	core.ActionMock: {
		"Imagine falling for this lmao",
		"This is what's wrong with society",
		"ratio",
		"Who approved this copy",
		"This seems too good to be true",
		"ad so bad it wrapped around to being funny",
	},
}

// reasoningPools hold one diagnostic line per action.
var reasoningPools = map[core.ActionType][]string{
	core.ActionIgnore: {
		"Not my thing, scrolling past.",
		"Doesn't match anything I care about.",
		"Seen a hundred ads like this today.",
	},
	core.ActionLike: {
		"Low effort way to show mild approval.",
		"It's fine, worth a like.",
		"Friends seem into it, tapping like.",
	},
	core.ActionComment: {
		"I have an actual opinion on this.",
		"Want to know more before judging.",
		"This touches something I follow closely.",
	},
	core.ActionShare: {
		"My followers would want to see this.",
		"Good fit for my feed.",
		"Boosting because it matches my interests.",
	},
	core.ActionQuoteShare: {
		"Sharing with my own spin on it.",
		"Needs my commentary attached.",
		"Can't pass this without adding my take.",
	},
	core.ActionMock: {
		"Too easy a target to pass up.",
		"The copy is asking for it.",
		"Everyone else is piling on, joining in.",
	},
}

// moodTransitions define the candidate mood set drawn after each action.
var moodTransitions = map[core.ActionType][]utils.Weighted[core.Mood]{
	core.ActionIgnore: {
		{Item: core.MoodBored, Weight: 0.4},
		{Item: core.MoodNeutral, Weight: 0.4},
		{Item: core.MoodCynical, Weight: 0.2},
	},
	core.ActionLike: {
		{Item: core.MoodHappy, Weight: 0.4},
		{Item: core.MoodNeutral, Weight: 0.3},
		{Item: core.MoodExcited, Weight: 0.3},
	},
	core.ActionComment: {
		{Item: core.MoodNeutral, Weight: 0.4},
		{Item: core.MoodExcited, Weight: 0.3},
		{Item: core.MoodAnxious, Weight: 0.3},
	},
	core.ActionShare: {
		{Item: core.MoodExcited, Weight: 0.5},
		{Item: core.MoodHappy, Weight: 0.4},
		{Item: core.MoodNeutral, Weight: 0.1},
	},
	core.ActionQuoteShare: {
		{Item: core.MoodExcited, Weight: 0.4},
		{Item: core.MoodHappy, Weight: 0.3},
		{Item: core.MoodCynical, Weight: 0.3},
	},
	core.ActionMock: {
		{Item: core.MoodCynical, Weight: 0.5},
		{Item: core.MoodIrritable, Weight: 0.3},
		{Item: core.MoodExcited, Weight: 0.2},
	},
}
