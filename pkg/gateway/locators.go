package gateway

// RouterLocators are the playwright selectors of the router console.
type RouterLocators struct {
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
	Submit       string `yaml:"submit"`
	WifiSettings string `yaml:"wifi_settings"`
	RadioOn      string `yaml:"radio_on"`
	RadioOff     string `yaml:"radio_off"`
	Apply        string `yaml:"apply"`
	Success      string `yaml:"success"`
}

// ExtensionLocators are the playwright selectors of the extension console.
// Toggle is looked up inside Frame; every other selector is top-level.
type ExtensionLocators struct {
	Password     string `yaml:"password"`
	Submit       string `yaml:"submit"`
	WifiSettings string `yaml:"wifi_settings"`
	Content      string `yaml:"content"`
	Frame        string `yaml:"frame"`
	Toggle       string `yaml:"toggle"`
	ToggleOn     string `yaml:"toggle_on_class"`
	ToggleOff    string `yaml:"toggle_off_class"`
	Confirm      string `yaml:"confirm"`
	Status       string `yaml:"status"`
	StatusOK     string `yaml:"status_ok"`
}

// DefaultRouterLocators returns the selectors of the stock router firmware.
func DefaultRouterLocators() RouterLocators {
	return RouterLocators{
		Username:     "#Frm_Username",
		Password:     "#Frm_Password",
		Submit:       "#LoginId",
		WifiSettings: "xpath=//div[@id='home_category_setting']/a",
		RadioOn:      "#RadioStatus0_1",
		RadioOff:     "#RadioStatus1_1",
		Apply:        "#Btn_apply_WlanBasicAdConf",
		Success:      "xpath=//div[@class='succHint']",
	}
}

// DefaultExtensionLocators returns the selectors of the stock extension firmware.
func DefaultExtensionLocators() ExtensionLocators {
	return ExtensionLocators{
		Password:     "#login-password",
		Submit:       "#submit",
		WifiSettings: "xpath=//ul/li/a[@href='#wireless']",
		Content:      "#iframe-content",
		Frame:        "#main_iframe",
		Toggle:       "#wifiEn",
		ToggleOn:     "wifiOn",
		ToggleOff:    "wifiOff",
		Confirm:      "#submit",
		// the vendor UI really spells it "massage"
		Status:   "#ajax-massage",
		StatusOK: "OK",
	}
}

// Merge returns l with every empty field filled from defaults.
func (l RouterLocators) Merge(defaults RouterLocators) RouterLocators {
	fill(&l.Username, defaults.Username)
	fill(&l.Password, defaults.Password)
	fill(&l.Submit, defaults.Submit)
	fill(&l.WifiSettings, defaults.WifiSettings)
	fill(&l.RadioOn, defaults.RadioOn)
	fill(&l.RadioOff, defaults.RadioOff)
	fill(&l.Apply, defaults.Apply)
	fill(&l.Success, defaults.Success)
	return l
}

// Merge returns l with every empty field filled from defaults.
func (l ExtensionLocators) Merge(defaults ExtensionLocators) ExtensionLocators {
	fill(&l.Password, defaults.Password)
	fill(&l.Submit, defaults.Submit)
	fill(&l.WifiSettings, defaults.WifiSettings)
	fill(&l.Content, defaults.Content)
	fill(&l.Frame, defaults.Frame)
	fill(&l.Toggle, defaults.Toggle)
	fill(&l.ToggleOn, defaults.ToggleOn)
	fill(&l.ToggleOff, defaults.ToggleOff)
	fill(&l.Confirm, defaults.Confirm)
	fill(&l.Status, defaults.Status)
	fill(&l.StatusOK, defaults.StatusOK)
	return l
}

func fill(dst *string, def string) {
	if *dst == "" {
		*dst = def
	}
}
