package boss

import (
	"fmt"
	"net/url"
)

const (
	HomeURL = "https://www.zhipin.com/"

	ListingPattern = "zpgeek/search/joblist.json"
	DetailPattern  = "zpgeek/job/detail/info.json"

	searchURL     = "https://www.zhipin.com/web/geek/job"
	detailInfoURL = "https://www.zhipin.com/wapi/zpgeek/job/detail/info.json"
)

func SearchURL(keyword, cityCode string) string {
	params := url.Values{}
	params.Add("query", keyword)
	params.Add("city", cityCode)
	return searchURL + "?" + params.Encode()
}

func DetailInfoURL(jobID, securityID, lid string) string {
	params := url.Values{}
	params.Add("jobId", jobID)
	params.Add("securityId", securityID)
	params.Add("lid", lid)
	return detailInfoURL + "?" + params.Encode()
}

// DetailFetchScript issues the detail request from inside the page so that it
// carries the session cookies; the response is picked up by interception.
func DetailFetchScript(jobID, securityID, lid string) string {
	return fmt.Sprintf(`fetch(%q, {
  method: "GET",
  credentials: "include",
  headers: {"accept": "application/json", "x-requested-with": "XMLHttpRequest"}
});`, DetailInfoURL(jobID, securityID, lid))
}
