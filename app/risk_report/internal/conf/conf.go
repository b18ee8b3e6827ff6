package conf

// Bootstrap 服务启动配置，由 kratos config 从 YAML 扫描得到
type Bootstrap struct {
	Server   *Server   `json:"server"`
	Data     *Data     `json:"data"`
	Renderer *Renderer `json:"renderer"`
}

type Server struct {
	Http *HTTP `json:"http"`
}

type HTTP struct {
	Addr    string `json:"addr"`
	Timeout string `json:"timeout"`
}

// Data 持久化配置，Database 为空或 Source 为空时不启用
type Data struct {
	Database *Database `json:"database"`
}

type Database struct {
	Driver string `json:"driver"`
	Source string `json:"source"`
}

// Renderer 报告渲染配置，对应 pkg/config.Config
type Renderer struct {
	Llm         *LLM         `json:"llm"`
	Fonts       *Fonts       `json:"fonts"`
	Report      *Report      `json:"report"`
	Log         *Log         `json:"log"`
	Concurrency *Concurrency `json:"concurrency"`
}

type LLM struct {
	BaseUrl string `json:"base_url"`
	ApiKey  string `json:"api_key"`
	Model   string `json:"model"`
	Timeout int32  `json:"timeout"`
}

type Fonts struct {
	CjkFont    string   `json:"cjk_font"`
	SearchDirs []string `json:"search_dirs"`
	Candidates []string `json:"candidates"`
}

type Report struct {
	TimeZone    string `json:"time_zone"`
	DefaultCity string `json:"default_city"`
	Banner      string `json:"banner"`
	Compress    *bool  `json:"compress"`
}

type Log struct {
	Level string `json:"level"`
	File  string `json:"file"`
}

type Concurrency struct {
	Qps int32 `json:"qps"`
	Rpm int32 `json:"rpm"`
}
