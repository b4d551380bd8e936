package statistic

import "fmt"

// RedisKeyLeaderboard names the ZSET holding the warm copy of one finished
// period's ranking.
func RedisKeyLeaderboard(period Period) string {
	return fmt.Sprintf("leaderboard:%s", period.Key())
}
