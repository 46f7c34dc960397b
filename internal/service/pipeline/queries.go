package pipeline

import "strings"

var entityQualifiers = []string{"株式会社", "有限会社", "合同会社", "企業", "会社"}

var officialSiteVariants = []string{"公式サイト", "会社概要", "本社", "site:co.jp"}

// GenerateQueries expands a keyword into a prioritised, duplicate-free query
// list: the bare keyword, then keyword plus legal-entity and generic company
// qualifiers, then official-site variants.
func GenerateQueries(keyword string) []string {
	keyword = strings.Join(strings.Fields(keyword), " ")
	if keyword == "" {
		return nil
	}

	out := []string{keyword}
	seen := map[string]struct{}{keyword: {}}
	add := func(q string) {
		if _, dup := seen[q]; dup {
			return
		}
		seen[q] = struct{}{}
		out = append(out, q)
	}
	for _, q := range entityQualifiers {
		add(keyword + " " + q)
	}
	for _, v := range officialSiteVariants {
		add(keyword + " " + v)
	}
	return out
}

// MaxRetryRounds bounds how many RetryQueries rounds a run issues.
const MaxRetryRounds = 3

// areaKeywords are the place names recognised when a keyword is split into
// area and industry. Words ending in 区, 市 or 県 count as areas as well.
var areaKeywords = map[string]struct{}{
	"東京": {}, "大阪": {}, "名古屋": {}, "福岡": {}, "札幌": {}, "横浜": {}, "神戸": {}, "京都": {},
	"埼玉": {}, "千葉": {}, "神奈川": {}, "愛知": {}, "兵庫": {}, "北海道": {}, "広島": {}, "仙台": {},
	"渋谷": {}, "新宿": {}, "品川": {}, "千代田": {}, "中央区": {}, "目黒": {},
	"さいたま": {}, "川崎": {}, "相模原": {}, "堺": {}, "北九州": {}, "浜松": {}, "熊本": {},
}

type industryVariant struct {
	industry string
	variants []string
}

// industryVariants is matched exactly first, then by substring in table order.
var industryVariants = []industryVariant{
	{"IT", []string{"IT企業", "システム開発", "Web制作", "アプリ開発", "SaaS", "クラウド", "AI", "セキュリティ", "インフラ", "データ分析", "DX推進", "SES"}},
	{"IT企業", []string{"IT企業", "システム開発", "Web制作", "アプリ開発", "SaaS", "クラウド", "AI", "セキュリティ", "インフラ", "データ分析", "DX推進", "SES"}},
	{"システム開発", []string{"SI企業", "受託開発", "業務システム", "Web開発", "ソフトウェア"}},
	{"Web制作", []string{"ホームページ制作", "Webデザイン", "ECサイト構築", "CMS開発"}},
	{"製造業", []string{"メーカー", "工場", "製造", "ものづくり", "部品加工", "金属加工", "プラスチック成形", "電子部品", "精密機器", "自動車部品"}},
	{"メーカー", []string{"製造業", "工場", "OEM", "部品", "組立"}},
	{"建設", []string{"建設会社", "ゼネコン", "施工管理", "設備工事", "電気工事", "内装工事"}},
	{"不動産", []string{"不動産会社", "デベロッパー", "管理会社", "仲介", "賃貸管理"}},
	{"飲食", []string{"飲食店", "レストラン", "フードサービス", "ケータリング", "給食"}},
	{"物流", []string{"物流会社", "運送", "倉庫", "配送", "ロジスティクス"}},
	{"広告", []string{"広告代理店", "マーケティング", "PR会社", "デジタルマーケティング"}},
	{"人材", []string{"人材紹介", "人材派遣", "採用支援", "HRテック"}},
	{"コンサルティング", []string{"経営コンサルタント", "ITコンサル", "戦略コンサル", "業務改善"}},
}

var subAreas = map[string][]string{
	"東京":  {"渋谷区", "新宿区", "港区", "千代田区", "品川区", "中央区", "目黒区", "豊島区", "文京区", "台東区", "江東区", "墨田区"},
	"大阪":  {"大阪市北区", "大阪市中央区", "大阪市淀川区", "大阪市西区", "堺市", "豊中市", "吹田市", "東大阪市"},
	"名古屋": {"名古屋市中区", "名古屋市中村区", "名古屋市東区", "名古屋市西区", "名古屋市千種区"},
	"福岡":  {"福岡市博多区", "福岡市中央区", "北九州市", "久留米市"},
	"横浜":  {"横浜市西区", "横浜市中区", "横浜市港北区", "横浜市神奈川区"},
	"札幌":  {"札幌市中央区", "札幌市北区", "札幌市東区"},
	"神戸":  {"神戸市中央区", "神戸市兵庫区", "神戸市東灘区"},
	"京都":  {"京都市下京区", "京都市中京区", "京都市上京区"},
}

var nearbyAreas = map[string][]string{
	"東京":  {"神奈川", "横浜", "川崎", "埼玉", "さいたま市", "千葉"},
	"大阪":  {"兵庫", "神戸", "京都", "奈良", "堺"},
	"名古屋": {"愛知", "岐阜", "三重", "豊田"},
	"福岡":  {"北九州", "佐賀", "熊本", "大分"},
	"横浜":  {"東京", "川崎", "藤沢", "相模原"},
	"札幌":  {"旭川", "函館", "小樽"},
}

var (
	scaleWords     = []string{"ベンチャー", "スタートアップ", "中堅", "老舗"}
	attributeWords = []string{"上場企業", "非上場", "急成長", "設立 2020年以降"}
	nicheWords     = []string{"BtoB", "自社サービス", "グローバル", "IPO"}
)

// SplitKeyword separates the area word of keyword from the industry words.
// The last area-like word wins.
func SplitKeyword(keyword string) (area, industry string) {
	var rest []string
	for _, part := range strings.Fields(keyword) {
		_, known := areaKeywords[part]
		if known || hasAreaSuffix(part) {
			area = part
			continue
		}
		rest = append(rest, part)
	}
	return area, strings.Join(rest, " ")
}

func hasAreaSuffix(word string) bool {
	return strings.HasSuffix(word, "区") || strings.HasSuffix(word, "市") || strings.HasSuffix(word, "県")
}

func variantsFor(industry string) []string {
	for _, iv := range industryVariants {
		if iv.industry == industry {
			return iv.variants
		}
	}
	if industry != "" {
		for _, iv := range industryVariants {
			if strings.Contains(industry, iv.industry) {
				return iv.variants
			}
		}
	}
	return []string{
		industry + " 株式会社",
		industry + " 中小企業",
		industry + " 優良企業",
		industry + " 会社一覧",
		industry + " site:co.jp",
	}
}

// RetryQueries builds the queries for retry round (1-based) of keyword.
// Round 1 widens the industry and adds company-scale words, round 2 narrows
// the area to its wards and cities and adds company attributes, round 3 and
// later move to nearby areas and niche angles. Queries in used are left out.
func RetryQueries(keyword string, round int, used map[string]struct{}) []string {
	keyword = strings.Join(strings.Fields(keyword), " ")
	if keyword == "" || round < 1 {
		return nil
	}
	area, industry := SplitKeyword(keyword)

	var candidates []string
	withArea := func(place, rest string) string {
		if place == "" {
			return rest
		}
		return place + " " + rest
	}

	switch {
	case round == 1:
		variants := variantsFor(industry)
		for _, v := range variants {
			candidates = append(candidates, withArea(area, v))
		}
		for _, w := range scaleWords {
			candidates = append(candidates, keyword+" "+w)
		}
		for _, corp := range []string{"株式会社", "site:co.jp"} {
			for _, v := range variants[:min(3, len(variants))] {
				candidates = append(candidates, withArea(area, v+" "+corp))
			}
		}
	case round == 2:
		if area != "" {
			places, ok := subAreas[area]
			if !ok && !hasAreaSuffix(area) {
				places = []string{area + "市", area + "区"}
			}
			candidates = append(candidates, placeQueries(places, industry)...)
		}
		for _, w := range attributeWords {
			candidates = append(candidates, keyword+" "+w)
		}
	default:
		candidates = append(candidates, placeQueries(nearbyAreas[area], industry)...)
		for _, w := range nicheWords {
			candidates = append(candidates, keyword+" "+w)
		}
	}

	out := make([]string, 0, len(candidates))
	seen := map[string]struct{}{}
	for _, q := range candidates {
		q = strings.Join(strings.Fields(q), " ")
		if q == "" {
			continue
		}
		if _, dup := used[q]; dup {
			continue
		}
		if _, dup := seen[q]; dup {
			continue
		}
		seen[q] = struct{}{}
		out = append(out, q)
	}
	return out
}

// placeQueries pairs every place with the industry, bare and with 株式会社.
// Without an industry the generic 企業 stands in.
func placeQueries(places []string, industry string) []string {
	out := make([]string, 0, 2*len(places))
	for _, p := range places {
		if industry == "" {
			out = append(out, p+" 企業", p+" 株式会社")
			continue
		}
		out = append(out, p+" "+industry, p+" "+industry+" 株式会社")
	}
	return out
}
