package data

type Duration string

const (
	MONTHLY     Duration = "monthly"
	QUARTERLY   Duration = "quarterly"
	SEMI_ANNUAL Duration = "semi-annual"
	ANNUAL      Duration = "annual"
)

var Durations = []Duration{MONTHLY, QUARTERLY, SEMI_ANNUAL, ANNUAL}

type SubscriptionType string

const (
	PERSONAL SubscriptionType = "personal"
	OFFICIAL SubscriptionType = "official"
)

var SubscriptionTypes = []SubscriptionType{PERSONAL, OFFICIAL}

type Category string

const (
	STREAMING     Category = "streaming"
	CLOUD         Category = "cloud"
	DEVELOPMENT   Category = "development"
	PRODUCTIVITY  Category = "productivity"
	COMMUNICATION Category = "communication"
	OTHER         Category = "other"
)

var Categories = []Category{STREAMING, CLOUD, DEVELOPMENT, PRODUCTIVITY, COMMUNICATION, OTHER}
