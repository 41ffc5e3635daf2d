// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package browser

// Centralized DOM selectors for the X web interface. When the site changes
// its layout, update here only. data-testid attributes are preferred as the
// most stable hooks.
const (
	// Post structure.
	selPost       = `article[data-testid="tweet"]`
	selStatusLink = `a[href*="/status/"]`
	selTimestamp  = `time`

	// Post classification.
	selSocialContext = `[data-testid="socialContext"]`
	selNestedPost    = `[data-testid="tweet"] [data-testid="tweet"]`
	selQuoteCard     = `div[role="link"][tabindex="0"]`

	// Post fields.
	selAnalyticsLink = `a[href*="/analytics"]`
	selMetricsGroup  = `[role="group"]`
	selUserName      = `[data-testid="User-Name"]`
	selHandleLink    = `a[href^="/"]`
	selTweetText     = `[data-testid="tweetText"]`
	selLangDiv       = `div[lang]`

	// Navigation and login state.
	selFollowingTab     = `a[href="/home"][role="tab"]`
	selNotificationCell = `div[data-testid="cellInnerDiv"]`
	selAccountSwitcher  = `[data-testid="SideNav_AccountSwitcher_Button"]`
	selLoginButton      = `a[data-testid="loginButton"]`
)

const (
	homeURL          = "https://x.com/home"
	notificationsURL = "https://x.com/notifications"
)
