package openaicompat

import "fmt"

// Reports arrive in Turkish or English; the analysis is always reported
// in Turkish, matching the rule-based reasons.
const analystSystemPrompt = "Sen uzman bir test analisti olarak Türkçe konuşuyorsun. Yanıtı JSON formatında üret."

func buildAnalysisPrompt(testName, errorMessage string) string {
	return fmt.Sprintf(
		"Aşağıdaki test başarısızlığını analiz et ve nedenini açıkla. "+
			"Yanıtta yalnızca JSON formatı döndür."+
			"\n\nTest adı: %s\nHata mesajı: %s\n"+
			"\nLütfen şu JSON formatında ve Türkçe yanıt ver:\n"+
			"{\n"+
			"  \"failure_reason\": \"<kısa açıklama>\",\n"+
			"  \"suggested_fix\": \"<önerilen çözüm>\"\n"+
			"}",
		testName, errorMessage,
	)
}
