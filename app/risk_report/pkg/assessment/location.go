package assessment

import "fmt"

// City 评估地点
type City struct {
	Name      string `json:"name"`
	LocalName string `json:"local_name"`
}

// cities 可选城市及其中文名，顺序即下拉列表顺序
var cities = []City{
	{"Guangzhou", "广州"},
	{"Shenzhen", "深圳"},
	{"Dongguan", "东莞"},
	{"Foshan", "佛山"},
	{"Zhongshan", "中山"},
	{"Huizhou", "惠州"},
	{"Zhuhai", "珠海"},
	{"Jiangmen", "江门"},
	{"Zhaoqing", "肇庆"},
	{"Shanghai", "上海"},
	{"Beijing", "北京"},
	{"Suzhou", "苏州"},
	{"Hangzhou", "杭州"},
	{"Ningbo", "宁波"},
	{"Wenzhou", "温州"},
	{"Wuhan", "武汉"},
	{"Chengdu", "成都"},
	{"Chongqing", "重庆"},
	{"Tianjin", "天津"},
	{"Nanjing", "南京"},
	{"Xi'an", "西安"},
	{"Qingdao", "青岛"},
	{"Dalian", "大连"},
	{"Shenyang", "沈阳"},
	{"Changsha", "长沙"},
	{"Zhengzhou", "郑州"},
	{"Jinan", "济南"},
	{"Harbin", "哈尔滨"},
	{"Changchun", "长春"},
	{"Taiyuan", "太原"},
	{"Shijiazhuang", "石家庄"},
	{"Lanzhou", "兰州"},
	{"Xiamen", "厦门"},
	{"Fuzhou", "福州"},
	{"Nanning", "南宁"},
	{"Kunming", "昆明"},
	{"Guiyang", "贵阳"},
	{"Haikou", "海口"},
	{"Ürümqi", "乌鲁木齐"},
	{"Lhasa", "拉萨"},
}

var cityIndex = func() map[string]string {
	m := make(map[string]string, len(cities))
	for _, c := range cities {
		m[c.Name] = c.LocalName
	}
	return m
}()

// DefaultCity 未选择地点时使用的城市
const DefaultCity = "Shanghai"

// Cities 返回城市列表副本
func Cities() []City {
	out := make([]City, len(cities))
	copy(out, cities)
	return out
}

// LocalName 返回城市中文名，未知城市返回空串
func LocalName(city string) string {
	return cityIndex[city]
}

// LocationSettings 地点设置
type LocationSettings struct {
	City string `json:"city" yaml:"city"`
}

// KnownCity 城市是否在列表中
func (s LocationSettings) KnownCity() bool {
	_, ok := cityIndex[s.City]
	return ok
}

// Line 返回页脚与抬头使用的地点文本。
// 中文报告且城市已知时显示 "地点: City (中文名)"，否则 "Location: City"。
func (s LocationSettings) Line(pdf Language) string {
	local := LocalName(s.City)
	if pdf == Mandarin && local != "" {
		return fmt.Sprintf("地点: %s (%s)", s.City, local)
	}
	return fmt.Sprintf("Location: %s", s.City)
}
