// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Topic describes what the final selection is about: keywords matched
// against post content and accounts whose posts are always kept.
type Topic struct {
	// Keywords are matched as case-insensitive substrings of post content.
	Keywords []string `json:"keywords" yaml:"keywords"`

	// PriorityAccounts are usernames (without the @) whose posts are always
	// included, keyword match or not.
	PriorityAccounts []string `json:"priority_accounts" yaml:"priority_accounts"`
}

// LoadTopic reads a Topic from a YAML file. Missing keys fall back to the
// built-in defaults, so a file may override just one list.
func LoadTopic(path string) (Topic, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Topic{}, fmt.Errorf("reading topic file: %w", err)
	}
	topic := DefaultTopic()
	if err := yaml.Unmarshal(data, &topic); err != nil {
		return Topic{}, fmt.Errorf("parsing topic file %s: %w", path, err)
	}
	return topic, nil
}

func (t Topic) accountSet() map[string]struct{} {
	set := make(map[string]struct{}, len(t.PriorityAccounts))
	for _, acc := range t.PriorityAccounts {
		set[strings.ToLower(acc)] = struct{}{}
	}
	return set
}

func (t Topic) loweredKeywords() []string {
	out := make([]string, len(t.Keywords))
	for i, kw := range t.Keywords {
		out[i] = strings.ToLower(kw)
	}
	return out
}

// DefaultTopic returns the built-in Hyperliquid topic configuration.
func DefaultTopic() Topic {
	return Topic{
		PriorityAccounts: []string{
			"stevenyuntcap",
			"HyperliquidNews",
			"GLC_Research",
			"0xBroze",
			"mlmabc",
			"HyperliquidR",
			"qwantifyio",
		},
		Keywords: []string{
			// Core terms
			"hyperliquid",
			"hyperliquid ecosystem",
			"hyperliquid strategies",
			"hl",
			"hype",
			"hyper",
			"hyperps",

			// Protocol and technology
			"hyperbft",
			"hyperevm",
			"hypercore",
			"l1",
			"clob",
			"fully onchain",
			"high-performance",
			"consensus",
			"validator",
			"node",
			"rpc",
			"precompile",
			"oracle",
			"order book",
			"orderbook",
			"permissionless",
			"dual block",

			// Trading
			"perp",
			"perpetual",
			"dex",
			"exchange",
			"cex",
			"derivatives",
			"leverage",
			"trade",
			"margin",
			"cross margin",
			"isolated margin",
			"portfolio margin",
			"funding",
			"fee",
			"open interest",
			"oi",
			"slippage",
			"liquidity",
			"order",
			"market order",
			"limit order",
			"take profit",
			"stop loss",
			"entry price",
			"liquidation",
			"insurance fund",
			"assistant fund",
			"assistance fund",
			"af",
			"position management",
			"risk engine",
			"quote asset",
			"adl",
			"auto-deleveraging",
			"delist",
			"market making",

			// Tokens and economics
			"native token",
			"tge",
			"airdrop",
			"tokenomics",
			"emission",
			"supply schedule",
			"staking",
			"stake",
			"unstake",
			"fee sharing",
			"points",
			"point",
			"leaderboard",
			"incentive",
			"referral",
			"buyback",
			"native markets",
			"stablecoin",

			// Ecosystem tokens
			"purr",
			"hlp",
			"hypurr",
			"hypurrfi",
			"sthype",
			"khype",
			"usdh",
			"usde",
			"usdt",
			"usdc",
			"ubtc",

			// Metrics
			"tvl",
			"market share",
			"volume",
			"growth mode",
			"dau",

			// Governance
			"proposal",
			"vote",
			"governance",
			"hip",
			"hip-1",
			"hip-2",
			"hip-3",
			"hip1",
			"hip2",
			"hip3",

			// Ecosystem projects and tools
			"vault",
			"jeff",
			"hyena",
			"based",
			"pre-ipo",
			"swap",
			"multisig",
			"audit",
			"portfolio",
			"native",
			"phantom",
			"metamask",
			"builder codes",
			"builder code",
			"house all of finance",
			"house of all finance",
			"dreamcash",
			"usa500",
			"s&p500",
			"selini",
			"tether",
			"circle",
			"tsla",
			"tesla",
			"hyperlend",
			"evm",
			"core",
			"markets",
			"kntq",
			"kinetiq",
			"commodity",
			"equity",
			"stock",
			"gold",
			"silver",
			"ventuals",
			"defi",
			"prjx",
			"project x",
			"hsi",
			"hypd",
			"felix",
			"hyperdrive",
			"zero vc",
			"hypurrcollective",
			"hypurrco",
			"valantis",
			"trade.xyz",
			"kaiko",
			"neura vaults",
			"option",
			"covered call",
			"rysk",
			"silhouette",
			"earn",
			"hypurrscan",
			"borrow",
			"lend",
			"auction",
			"bridge",
			"application",
			"dexari",
			"lootbase",
			"rabby",
			"unit",
			"morpho",
			"hyperbeat",
			"pendle",
			"veda",
			"mev capital",
			"upshift",
			"looping collective",
			"liminal",
			"sentiment",
			"hyperswap",
			"midas",
			"d2 finance",
			"harmonix",
			"mlm",
			"otc",
			"alber blanc",
			"bug bounty",
			"gas fee",
		},
	}
}
