package badges

import "prompt_badges/internal/domain"

// Badge ids referenced outside the catalog.
const (
	BadgeFirstPrompt     = "first_prompt"
	BadgeProlificCreator = "prolific_creator"
	BadgeVeteran         = "veteran"
	BadgeEarlyAdopter    = "early_adopter"
)

// earlyAdopterCutoff is 2024-01-01T00:00:00Z.
const earlyAdopterCutoff = 1704067200

// DefaultDefinitions returns a fresh copy of the built-in badge set.
func DefaultDefinitions() []Definition {
	return []Definition{
		// content creation
		{
			ID:          BadgeFirstPrompt,
			Name:        "First Steps",
			Description: "Published your first prompt",
			Icon:        "✏️",
			Tier:        domain.TierCommon,
			Category:    domain.CategoryContentCreation,
			Criteria:    Threshold{Field: domain.StatTotalPrompts, Threshold: 1},
		},
		{
			ID:            BadgeProlificCreator,
			Name:          "Prolific Creator",
			Description:   "Keep publishing prompts",
			Icon:          "📚",
			Tier:          domain.TierUncommon,
			Category:      domain.CategoryContentCreation,
			Criteria:      Threshold{Field: domain.StatTotalPrompts},
			IsProgressive: true,
			Levels: []Level{
				{Level: 1, Name: "Bronze Creator", Threshold: 10, Tier: domain.TierCommon},
				{Level: 2, Name: "Silver Creator", Threshold: 50, Tier: domain.TierUncommon},
				{Level: 3, Name: "Gold Creator", Threshold: 100, Tier: domain.TierEpic},
				{Level: 4, Name: "Legendary Creator", Threshold: 500, Tier: domain.TierLegendary},
			},
		},
		{
			ID:          "category_explorer",
			Name:        "Category Explorer",
			Description: "Published prompts in 5 different categories",
			Icon:        "🧭",
			Tier:        domain.TierRare,
			Category:    domain.CategoryContentCreation,
			Criteria:    Threshold{Field: domain.StatCategoriesUsed, Threshold: 5},
		},
		{
			ID:          "agent_whisperer",
			Name:        "Agent Whisperer",
			Description: "Wrote prompts for 3 different agents",
			Icon:        "🤖",
			Tier:        domain.TierUncommon,
			Category:    domain.CategoryContentCreation,
			Criteria:    Threshold{Field: domain.StatAgentsUsed, Threshold: 3},
		},

		// engagement
		{
			ID:            "crowd_favorite",
			Name:          "Crowd Favorite",
			Description:   "Collect likes on your prompts",
			Icon:          "❤️",
			Tier:          domain.TierUncommon,
			Category:      domain.CategoryEngagement,
			Criteria:      Threshold{Field: domain.StatTotalLikes},
			IsProgressive: true,
			Levels: []Level{
				{Level: 1, Name: "Liked", Threshold: 10, Tier: domain.TierCommon},
				{Level: 2, Name: "Loved", Threshold: 100, Tier: domain.TierUncommon},
				{Level: 3, Name: "Adored", Threshold: 500, Tier: domain.TierRare},
				{Level: 4, Name: "Idolized", Threshold: 1000, Tier: domain.TierEpic},
			},
		},
		{
			ID:            "bookmark_magnet",
			Name:          "Bookmark Magnet",
			Description:   "Get your prompts saved by others",
			Icon:          "🔖",
			Tier:          domain.TierUncommon,
			Category:      domain.CategoryEngagement,
			Criteria:      Threshold{Field: domain.StatTotalSaves},
			IsProgressive: true,
			Levels: []Level{
				{Level: 1, Name: "Saved", Threshold: 10, Tier: domain.TierCommon},
				{Level: 2, Name: "Collected", Threshold: 50, Tier: domain.TierUncommon},
				{Level: 3, Name: "Treasured", Threshold: 250, Tier: domain.TierRare},
			},
		},
		{
			ID:          "conversationalist",
			Name:        "Conversationalist",
			Description: "Posted 25 comments",
			Icon:        "💬",
			Tier:        domain.TierCommon,
			Category:    domain.CategoryEngagement,
			Criteria:    Threshold{Field: domain.StatTotalComments, Threshold: 25},
		},
		{
			ID:          "discussion_starter",
			Name:        "Discussion Starter",
			Description: "Received 20 replies to your comments",
			Icon:        "🗣️",
			Tier:        domain.TierUncommon,
			Category:    domain.CategoryEngagement,
			Criteria:    Threshold{Field: domain.StatTotalReplies, Threshold: 20},
		},

		// social
		{
			ID:            "influencer",
			Name:          "Influencer",
			Description:   "Grow your follower base",
			Icon:          "📣",
			Tier:          domain.TierRare,
			Category:      domain.CategorySocial,
			Criteria:      Threshold{Field: domain.StatFollowers},
			IsProgressive: true,
			Levels: []Level{
				{Level: 1, Name: "Rising Voice", Threshold: 10, Tier: domain.TierUncommon},
				{Level: 2, Name: "Trendsetter", Threshold: 100, Tier: domain.TierRare},
				{Level: 3, Name: "Icon", Threshold: 1000, Tier: domain.TierLegendary},
			},
		},
		{
			ID:          "social_butterfly",
			Name:        "Social Butterfly",
			Description: "Follow and be followed by at least 10 people",
			Icon:        "🦋",
			Tier:        domain.TierUncommon,
			Category:    domain.CategorySocial,
			Criteria: Custom{
				Validator: ValidatorSocialButterfly,
				Params:    map[string]float64{"min_followers": 10, "min_following": 10},
			},
		},
		{
			ID:          "comment_champion",
			Name:        "Comment Champion",
			Description: "Your comments received 50 likes",
			Icon:        "🏆",
			Tier:        domain.TierRare,
			Category:    domain.CategorySocial,
			Criteria:    Threshold{Field: domain.StatCommentLikes, Threshold: 50},
		},

		// quality
		{
			ID:          "quality_curator",
			Name:        "Quality Curator",
			Description: "Average rating of 4.5+ across at least 5 rated prompts",
			Icon:        "⭐",
			Tier:        domain.TierEpic,
			Category:    domain.CategoryQuality,
			Criteria: Custom{
				Validator: ValidatorHighAverageRating,
				Params:    map[string]float64{"min_average": 4.5, "min_rated": 5},
			},
		},
		{
			ID:          "perfect_score",
			Name:        "Perfect Score",
			Description: "A prompt averaged a perfect 5",
			Icon:        "💯",
			Tier:        domain.TierRare,
			Category:    domain.CategoryQuality,
			Criteria: Custom{
				Validator: ValidatorPerfectRating,
				Params:    map[string]float64{"rating": 5},
			},
		},
		{
			ID:          "rated_creator",
			Name:        "Rated Creator",
			Description: "10 of your prompts have been rated",
			Icon:        "📝",
			Tier:        domain.TierUncommon,
			Category:    domain.CategoryQuality,
			Criteria:    Threshold{Field: domain.StatRatedPrompts, Threshold: 10},
		},

		// milestone
		{
			ID:            "dedicated",
			Name:          "Dedicated",
			Description:   "Stay active on consecutive days",
			Icon:          "🔥",
			Tier:          domain.TierUncommon,
			Category:      domain.CategoryMilestone,
			Criteria:      Threshold{Field: domain.StatConsecutiveDays},
			IsProgressive: true,
			Levels: []Level{
				{Level: 1, Name: "Week Streak", Threshold: 7, Tier: domain.TierCommon},
				{Level: 2, Name: "Month Streak", Threshold: 30, Tier: domain.TierUncommon},
				{Level: 3, Name: "Hundred Days", Threshold: 100, Tier: domain.TierRare},
				{Level: 4, Name: "Year Streak", Threshold: 365, Tier: domain.TierLegendary},
			},
		},
		{
			ID:            BadgeVeteran,
			Name:          "Veteran",
			Description:   "Time spent as a member",
			Icon:          "🎖️",
			Tier:          domain.TierRare,
			Category:      domain.CategoryMilestone,
			Criteria:      TimeBased{Field: domain.StatAccountAgeDays},
			IsProgressive: true,
			Levels: []Level{
				{Level: 1, Name: "One Month", Threshold: 30, Tier: domain.TierCommon},
				{Level: 2, Name: "Half Year", Threshold: 180, Tier: domain.TierUncommon},
				{Level: 3, Name: "One Year", Threshold: 365, Tier: domain.TierRare},
				{Level: 4, Name: "Two Years", Threshold: 730, Tier: domain.TierEpic},
			},
		},

		// special
		{
			ID:          BadgeEarlyAdopter,
			Name:        "Early Adopter",
			Description: "Joined before 2024",
			Icon:        "🌱",
			Tier:        domain.TierLegendary,
			Category:    domain.CategorySpecial,
			Criteria: Custom{
				Validator: ValidatorJoinedBefore,
				Params:    map[string]float64{"before": earlyAdopterCutoff},
			},
		},
		{
			ID:          "renaissance",
			Name:        "Renaissance",
			Description: "20+ prompts spanning 3 categories and 3 agents",
			Icon:        "🎨",
			Tier:        domain.TierEpic,
			Category:    domain.CategorySpecial,
			Criteria: Custom{
				Validator: ValidatorWellRounded,
				Params:    map[string]float64{"min_categories": 3, "min_agents": 3, "min_prompts": 20},
			},
		},
	}
}
