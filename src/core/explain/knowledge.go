package explain

import "strings"

// knowledgeEntry pairs a disease key with its canned explanation.
type knowledgeEntry struct {
	key  string
	text string
}

// knowledgeBase is the built-in disease reference. It is an ordered slice,
// not a map: matching walks it front to back and the first hit wins, so the
// authored order is a meaningful tie-break and must be preserved.
var knowledgeBase = []knowledgeEntry{
	{"early blight", "Early Blight is a common fungal disease caused by Alternaria solani that affects tomatoes, potatoes, and other plants. It creates dark spots with concentric rings (target-like pattern) on older leaves first, then spreads upward. The disease thrives in warm, humid conditions (75-85°F) with alternating wet and dry periods. Spores spread through wind, rain splash, and contaminated tools. To prevent Early Blight: rotate crops every 2-3 years, remove infected plant debris, water at the base of plants (avoid wetting leaves), ensure good air circulation, and apply fungicides preventively during humid weather."},

	{"late blight", "Late Blight is a devastating disease caused by Phytophthora infestans that can destroy entire crops within days. It causes water-soaked gray-green spots that turn brown/black, often with white fuzzy growth underneath leaves in humid conditions. This disease spreads rapidly in cool, wet weather (50-80°F). Spores travel by wind for miles. Prevention: use certified disease-free seeds, avoid overhead irrigation, destroy infected plants immediately, apply copper-based fungicides preventively, and plant resistant varieties when available."},

	{"powdery mildew", "Powdery Mildew appears as white or gray powdery patches on leaf surfaces, stems, and sometimes fruits. Unlike most fungal diseases, it thrives in warm, dry conditions with high humidity (not wet leaves). The fungus weakens plants by blocking photosynthesis and stealing nutrients. Prevention: ensure good air circulation, avoid overcrowding plants, water at soil level, remove infected leaves promptly, and apply sulfur or potassium bicarbonate sprays. Neem oil also helps control mild infections."},

	{"leaf spot", "Leaf Spot diseases are caused by various fungi and bacteria, creating spots of different colors (brown, black, tan) on leaves. Spots may have yellow halos and can merge to kill entire leaves. The pathogens survive in plant debris and spread through water splash and wind. Prevention: practice crop rotation, remove fallen leaves, avoid overhead watering, space plants for air circulation, and apply copper fungicides when symptoms first appear."},

	{"rust", "Rust diseases are caused by fungi that produce orange, yellow, or brown powdery pustules on leaf undersides. Severely infected leaves turn yellow and drop. Rust fungi need living plant tissue to survive and often require two different host plants to complete their life cycle. Prevention: remove infected leaves, improve air circulation, avoid wetting foliage, apply fungicides at first sign, and destroy alternate host plants nearby."},

	{"bacterial spot", "Bacterial Spot causes small, water-soaked spots that turn brown with yellow halos. Unlike fungal spots, bacterial lesions often look greasy or angular. The bacteria spread through rain splash, irrigation water, and contaminated tools. They enter through wounds or natural openings. Prevention: use disease-free seeds, avoid working with wet plants, sanitize tools, rotate crops, and apply copper sprays preventively. Remove severely infected plants."},

	{"mosaic virus", "Mosaic Virus causes mottled light and dark green patterns on leaves, leaf curling, stunted growth, and reduced yields. Viruses cannot be cured once a plant is infected. They spread through aphids, contaminated tools, and infected seeds. Prevention: control aphid populations, remove infected plants immediately, sanitize tools with 10% bleach solution, use virus-resistant varieties, and avoid tobacco products near tomato family plants."},

	{"brown spot", "Brown Spot is a fungal disease causing circular brown lesions with gray centers on leaves. It commonly affects rice, soybeans, and other crops. The fungus survives in infected seeds and plant debris. It spreads in warm, humid conditions through wind and rain. Prevention: use certified disease-free seeds, maintain proper plant nutrition (especially potassium), avoid excessive nitrogen, ensure good drainage, and apply fungicides during susceptible growth stages."},

	{"septoria", "Septoria Leaf Spot creates small circular spots with dark borders and tan/gray centers, often with tiny black dots (fruiting bodies) visible. It starts on lower leaves and moves upward. The fungus overwinters in plant debris and spreads through water splash. Prevention: mulch around plants, stake tomatoes to keep leaves off ground, water at base, remove lower leaves, practice 2-3 year rotation, and apply fungicides preventively in wet weather."},

	{"anthracnose", "Anthracnose causes dark, sunken lesions on leaves, stems, and fruits. On leaves, spots may have concentric rings. On fruits, it creates sunken, circular rotten spots. The fungus thrives in warm, wet conditions and spreads through rain splash and contaminated seeds. Prevention: use disease-free seeds, avoid overhead irrigation, harvest fruits before overripe, remove plant debris, rotate crops, and apply fungicides during flowering and fruit development."},

	{"healthy", "Great news! Your plant appears healthy with no signs of disease. To maintain plant health: water consistently at the soil level, ensure proper spacing for air circulation, monitor regularly for early signs of problems, maintain balanced nutrition, practice crop rotation, and remove any dead or yellowing leaves promptly."},
}

// lookupKnowledge matches a disease name against the knowledge base with a
// symmetric partial match: the key may be a substring of the name or the name
// a substring of the key, case-insensitively.
func lookupKnowledge(diseaseName string) (string, bool) {
	diseaseLower := strings.ToLower(strings.TrimSpace(diseaseName))
	if diseaseLower == "" {
		return "", false
	}

	for _, entry := range knowledgeBase {
		if strings.Contains(diseaseLower, entry.key) || strings.Contains(entry.key, diseaseLower) {
			return entry.text, true
		}
	}
	return "", false
}
