package normalize

import (
	"github.com/maxaizer/boss-harvester/internal/domain/models"
	"github.com/samber/lo"
	"regexp"
	"strings"
)

const UnknownCompany = "未知公司"

var (
	corporateSuffixRegex = regexp.MustCompile(`(有限公司|股份有限公司|责任有限公司|集团|科技|网络|信息技术|电子|系统|集成|发展|控股|投资|咨询|管理|服务|教育|文化|传媒|环境|能源|电力|新能源|智能|数据|软件|平台)$`)
	halfWidthBrackets    = regexp.MustCompile(`\([^)]*\)`)
	fullWidthBrackets    = regexp.MustCompile(`（[^）]*）`)
)

// NormalizeCompanyName drops bracketed annotations and one trailing
// corporate suffix so that "华为技术有限公司（深圳）" and "华为技术" collapse.
func NormalizeCompanyName(raw string) string {
	name := halfWidthBrackets.ReplaceAllString(raw, "")
	name = fullWidthBrackets.ReplaceAllString(name, "")
	name = strings.TrimSpace(name)
	name = strings.TrimSpace(corporateSuffixRegex.ReplaceAllString(name, ""))
	if name == "" {
		return UnknownCompany
	}
	return name
}

var (
	stateKeywords = []string{
		"国家电网", "南方电网", "华能", "大唐", "华电", "国电", "中电投",
		"中石油", "中石化", "中海油", "国家能源", "中广核", "华润",
		"中国电信", "中国移动", "中国联通", "中铁", "中建", "中交",
		"三峡集团", "中核", "中航", "航天科工", "航天科技",
		"电力公司", "能源集团", "发电集团", "电网公司",
		"研究院", "设计院", "研究所", "科学院", "大学",
		"集团", "股份", "国投", "电投", "能源",
	}
	foreignKeywords = []string{
		"特斯拉", "宝马", "奔驰", "大众", "西门子", "施耐德", "abb",
		"通用电气", "霍尼韦尔", "艾默生", "三菱", "东芝", "日立",
		"lg", "三星", "sk", "现代", "微软", "谷歌", "亚马逊",
		"苹果", "英特尔", "amd", "英伟达", "高通", "博世",
		"（中国）", "(中国)", "（上海）", "(上海)",
	}
	startupKeywords = []string{
		"创业", "天使", "孵化", "科技", "智能", "新能源科技",
		"有限合伙", "工作室",
	}
	fundingRoundMarkers = []string{"天使轮", "A轮", "B轮", "C轮", "D轮"}
	listedMarkers       = []string{"上市", "IPO", "不需要融资"}
	largeScaleBands     = []string{"10000人以上", "1000-9999人", "500-9999人"}
)

// ClassifyEmployer applies the rules in order and returns the first hit.
// Name keywords are matched case-insensitively against the raw name.
func ClassifyEmployer(rawName, financingStage, scale string) models.EmployerType {
	name := strings.ToLower(rawName)

	switch {
	case containsAny(name, stateKeywords):
		return models.StateAffiliated
	case containsAny(name, foreignKeywords):
		return models.ForeignJointVenture
	case containsAny(name, startupKeywords):
		return models.Startup
	case containsAny(financingStage, fundingRoundMarkers):
		return models.Startup
	case containsAny(financingStage, listedMarkers):
		return models.LargePrivateListed
	case containsAny(scale, largeScaleBands):
		return models.LargePrivateListed
	default:
		return models.OtherEmployer
	}
}

func containsAny(s string, substrings []string) bool {
	if s == "" {
		return false
	}
	return lo.SomeBy(substrings, func(sub string) bool {
		return strings.Contains(s, sub)
	})
}
