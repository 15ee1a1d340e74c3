package catalog

import (
	"time"

	"github.com/talgya/idle-syndicate/internal/resources"
)

// BotFarmsID is the foundational action: free, unlocked from the start,
// and the only Tier 1 action that produces bots.
const BotFarmsID = "bot-farms"

// Tier1Actions are the "Small Time" scams every run starts with.
var Tier1Actions = []Action{
	{ID: BotFarmsID, Name: "Bot Farms", Tier: 1, BaseDuration: 1 * time.Second, BaseReward: 1, Produces: resources.Bots,
		Description: "Deploy autonomous bots to do your bidding"},
	{ID: "nigerian-prince-emails", Name: "Nigerian Prince Emails", Tier: 1, BaseDuration: 5 * time.Second, BaseReward: 15, Produces: resources.Money,
		Description: "A modest sum to secure millions from a deposed prince", UnlockCost: price(100)},
	{ID: "fake-lottery-winnings", Name: "Fake Lottery Winnings", Tier: 1, BaseDuration: 3 * time.Second, BaseReward: 10, Produces: resources.Money,
		Description: "Congratulations! You've won! (Just pay the processing fee)", UnlockCost: price(150)},
	{ID: "iphone-popup", Name: `"You've Won an iPhone" Popups`, Tier: 1, BaseDuration: 2 * time.Second, BaseReward: 5, Produces: resources.Money,
		Description: "You are the 1,000,000th visitor! Definitely not a lie", UnlockCost: price(200)},
	{ID: "phishing-links", Name: "Phishing Links", Tier: 1, BaseDuration: 4 * time.Second, BaseReward: 12, Produces: resources.Money,
		Description: "Your account has been compromised! Click here to verify", UnlockCost: price(300)},
	{ID: "survey-scams", Name: "Survey Scams", Tier: 1, BaseDuration: 6 * time.Second, BaseReward: 18, Produces: resources.Money,
		Description: "Complete 47 surveys for a chance to win absolutely nothing", UnlockCost: price(500)},
	{ID: "fake-antivirus-popups", Name: "Fake Antivirus Popups", Tier: 1, BaseDuration: 3500 * time.Millisecond, BaseReward: 14, Produces: resources.Money,
		Description: "WARNING: 847 viruses detected! Download TotallyLegitAV now", UnlockCost: price(750)},
	{ID: "gift-card-scams", Name: "Gift Card Scams", Tier: 1, BaseDuration: 7 * time.Second, BaseReward: 25, Produces: resources.Money,
		Description: "The IRS accepts Steam gift cards now. Totally legit policy", UnlockCost: price(1000)},
	{ID: "advance-fee-fraud", Name: "Advance Fee Fraud", Tier: 1, BaseDuration: 8 * time.Second, BaseReward: 35, Produces: resources.Money,
		Description: "Guaranteed 500% returns! Small registration fee required", UnlockCost: price(2000)},
	{ID: "fake-job-postings", Name: "Fake Job Postings", Tier: 1, BaseDuration: 10 * time.Second, BaseReward: 50, Produces: resources.Money,
		Description: "Work from home! Be your own boss! (Training fee: $299)", UnlockCost: price(5000)},
}

// Tier1Helpers has one employee type per Tier 1 action.
var Tier1Helpers = []Helper{
	{ID: "bot-wrangler", Name: "Bot Wrangler", ActionID: BotFarmsID, BaseCost: 50, SpeedBoost: 0.03, RewardBoost: 0.05},
	{ID: "email-copywriter", Name: "Email Copywriter", ActionID: "nigerian-prince-emails", BaseCost: 100, SpeedBoost: 0.02, RewardBoost: 0.08},
	{ID: "lottery-announcer", Name: "Lottery Announcer", ActionID: "fake-lottery-winnings", BaseCost: 120, SpeedBoost: 0.04, RewardBoost: 0.06},
	{ID: "popup-designer", Name: "Popup Designer", ActionID: "iphone-popup", BaseCost: 80, SpeedBoost: 0.05, RewardBoost: 0.04},
	{ID: "domain-spoofer", Name: "Domain Spoofer", ActionID: "phishing-links", BaseCost: 150, SpeedBoost: 0.03, RewardBoost: 0.07},
	{ID: "survey-bot-operator", Name: "Survey Bot Operator", ActionID: "survey-scams", BaseCost: 180, SpeedBoost: 0.04, RewardBoost: 0.06},
	{ID: "fear-monger", Name: "Fear Monger", ActionID: "fake-antivirus-popups", BaseCost: 140, SpeedBoost: 0.03, RewardBoost: 0.07},
	{ID: "gift-card-reseller", Name: "Gift Card Reseller", ActionID: "gift-card-scams", BaseCost: 200, SpeedBoost: 0.02, RewardBoost: 0.08},
	{ID: "trust-builder", Name: "Trust Builder", ActionID: "advance-fee-fraud", BaseCost: 250, SpeedBoost: 0.02, RewardBoost: 0.09},
	{ID: "resume-faker", Name: "Resume Faker", ActionID: "fake-job-postings", BaseCost: 300, SpeedBoost: 0.02, RewardBoost: 0.1},
}

// Tier1Managers automate one Tier 1 action each.
var Tier1Managers = []Manager{
	{ID: "bot-3000", Name: "B0T-3000", ActionID: BotFarmsID, Cost: 500,
		FlavorText: "BEEP BOOP. AUTOMATION PROTOCOL ENGAGED."},
	{ID: "prince-okonkwo", Name: "Prince Okonkwo III", ActionID: "nigerian-prince-emails", Cost: 1000,
		FlavorText: "I am the REAL prince, unlike those other 47,000 imposters."},
	{ID: "lucky-larry", Name: "Lucky Larry Lotto", ActionID: "fake-lottery-winnings", Cost: 1200,
		FlavorText: "CONGRATULATIONS! You're our millionth viewer! I say that a lot."},
	{ID: "popup-pete", Name: "Popup Pete", ActionID: "iphone-popup", Cost: 1500,
		FlavorText: "YOU WON! CLICK HERE! NO WAIT, HERE!"},
	{ID: "phishmaster-phil", Name: "PhishMaster Phil", ActionID: "phishing-links", Cost: 2000,
		FlavorText: "The extra 'l' in 'Paypall' is for 'legitimate'."},
	{ID: "survey-susan", Name: "Survey Susan", ActionID: "survey-scams", Cost: 3000,
		FlavorText: "Just 47 more questions and you'll win that gift card!"},
	{ID: "dread-norton", Name: "Dread Norton", ActionID: "fake-antivirus-popups", Cost: 4000,
		FlavorText: "WARNING! Your computer has 847 VIRUSES!"},
	{ID: "gwen-cardsworth", Name: "Gwen Cardsworth", ActionID: "gift-card-scams", Cost: 6000,
		FlavorText: "Yes, the IRS DOES accept gift cards now. Very official."},
	{ID: "felix-upfront", Name: "Felix Upfront", ActionID: "advance-fee-fraud", Cost: 10000,
		FlavorText: "Your inheritance is ready! I just need a small processing fee."},
	{ID: "carla-careers", Name: "Carla Careers", ActionID: "fake-job-postings", Cost: 25000,
		FlavorText: "Make $10,000/week from HOME stuffing envelopes!"},
}

// Default returns the shipped Tier 1 catalog.
func Default() *Catalog {
	return New(BotFarmsID, Tier1Actions, Tier1Helpers, Tier1Managers)
}
