package posts

import (
	"strings"
	"sync"
)

const COLLEGE_SUBREDDIT = "college"

// StateToSubreddits lists the communities searched for each state's posts.
var StateToSubreddits = map[string][]string{
	"Alabama":              {"Alabama", "birmingham"},
	"Alaska":               {"alaska", "anchorage"},
	"Arizona":              {"arizona", "phoenix", "Tucson"},
	"Arkansas":             {"Arkansas"},
	"California":           {"California", "LosAngeles", "sanfrancisco", "sandiego"},
	"Colorado":             {"Colorado", "Denver"},
	"Connecticut":          {"Connecticut"},
	"Delaware":             {"Delaware"},
	"District of Columbia": {"washingtondc"},
	"Florida":              {"florida", "Miami", "orlando", "tampa"},
	"Georgia":              {"Georgia", "Atlanta"},
	"Hawaii":               {"Hawaii", "Honolulu"},
	"Idaho":                {"Idaho", "Boise"},
	"Illinois":             {"illinois", "chicago"},
	"Indiana":              {"Indiana", "indianapolis"},
	"Iowa":                 {"Iowa"},
	"Kansas":               {"kansas", "kansascity"},
	"Kentucky":             {"Kentucky", "Louisville"},
	"Louisiana":            {"Louisiana", "NewOrleans"},
	"Maine":                {"Maine"},
	"Maryland":             {"maryland", "baltimore"},
	"Massachusetts":        {"massachusetts", "boston"},
	"Michigan":             {"Michigan", "Detroit"},
	"Minnesota":            {"minnesota", "Minneapolis"},
	"Mississippi":          {"mississippi"},
	"Missouri":             {"missouri", "StLouis"},
	"Montana":              {"Montana"},
	"Nebraska":             {"Nebraska", "Omaha"},
	"Nevada":               {"Nevada", "vegas"},
	"New Hampshire":        {"newhampshire"},
	"New Jersey":           {"newjersey"},
	"New Mexico":           {"NewMexico", "Albuquerque"},
	"New York":             {"newyork", "nyc"},
	"North Carolina":       {"NorthCarolina", "raleigh", "Charlotte"},
	"North Dakota":         {"northdakota"},
	"Ohio":                 {"Ohio", "Columbus", "Cleveland"},
	"Oklahoma":             {"oklahoma", "okc"},
	"Oregon":               {"oregon", "Portland"},
	"Pennsylvania":         {"Pennsylvania", "philadelphia", "pittsburgh"},
	"Rhode Island":         {"RhodeIsland"},
	"South Carolina":       {"southcarolina"},
	"South Dakota":         {"SouthDakota"},
	"Tennessee":            {"Tennessee", "nashville", "memphis"},
	"Texas":                {"texas", "Austin", "houston", "Dallas"},
	"Utah":                 {"Utah", "SaltLakeCity"},
	"Vermont":              {"vermont"},
	"Virginia":             {"Virginia", "rva"},
	"Washington":           {"Washington", "Seattle"},
	"West Virginia":        {"WestVirginia"},
	"Wisconsin":            {"wisconsin", "milwaukee", "madisonwi"},
	"Wyoming":              {"wyoming"},
}

var (
	stateToSubredditsStr = make(map[string]string)
	subredditHelpersOnce sync.Once
)

func initSubredditHelpers() {
	subredditHelpersOnce.Do(func() {
		for state, subreddits := range StateToSubreddits {
			stateToSubredditsStr[state] = strings.Join(subreddits, "+")
		}
	})
}

// SubredditFor returns the multireddit path segment searched for a state,
// e.g. "Ohio+Columbus+Cleveland". Unknown states yield false.
func SubredditFor(state string) (string, bool) {
	initSubredditHelpers()
	s, ok := stateToSubredditsStr[state]
	return s, ok
}
