package nlp

// compoundConditions lists multi-word cancer subtypes, staged cancers,
// and other multi-word chronic conditions that must be matched atomically
// before any single-term pass runs (spec.md §4.3 step 2), so that e.g.
// "triple-negative breast cancer" is never also recorded as "breast
// cancer".
var compoundConditions = []string{
	"triple-negative breast cancer",
	"her2-positive breast cancer",
	"er-positive breast cancer",
	"hormone receptor-positive breast cancer",
	"inflammatory breast cancer",
	"non-small cell lung cancer",
	"small cell lung cancer",
	"stage 4 breast cancer",
	"stage iv breast cancer",
	"stage 3 breast cancer",
	"stage iii breast cancer",
	"stage 4 lung cancer",
	"stage iv lung cancer",
	"metastatic breast cancer",
	"metastatic lung cancer",
	"metastatic colorectal cancer",
	"metastatic prostate cancer",
	"castration-resistant prostate cancer",
	"acute myeloid leukemia",
	"chronic myeloid leukemia",
	"acute lymphoblastic leukemia",
	"chronic lymphocytic leukemia",
	"non-hodgkin lymphoma",
	"hodgkin lymphoma",
	"multiple myeloma",
	"pancreatic ductal adenocarcinoma",
	"renal cell carcinoma",
	"hepatocellular carcinoma",
	"squamous cell carcinoma",
	"glioblastoma multiforme",
	"type 1 diabetes",
	"type 2 diabetes",
	"chronic kidney disease",
	"chronic obstructive pulmonary disease",
	"congestive heart failure",
	"coronary artery disease",
	"rheumatoid arthritis",
	"inflammatory bowel disease",
	"ulcerative colitis",
	"crohn's disease",
	"major depressive disorder",
	"generalized anxiety disorder",
	"post-traumatic stress disorder",
}

var conditionVocabulary = []string{
	"cancer", "carcinoma", "tumor", "neoplasm", "malignancy", "sarcoma",
	"leukemia", "lymphoma", "melanoma", "diabetes", "hypertension",
	"asthma", "epilepsy", "stroke", "obesity", "anemia", "osteoporosis",
	"cirrhosis", "hepatitis", "hiv", "aids", "tuberculosis", "pneumonia",
	"depression", "anxiety", "schizophrenia", "bipolar disorder",
	"alzheimer's disease", "parkinson's disease", "multiple sclerosis",
	"fibromyalgia", "lupus", "psoriasis", "eczema", "migraine",
}

var medicationVocabulary = []string{
	"pembrolizumab", "nivolumab", "atezolizumab", "trastuzumab",
	"bevacizumab", "rituximab", "cetuximab", "imatinib", "erlotinib",
	"tamoxifen", "letrozole", "anastrozole", "cisplatin", "carboplatin",
	"paclitaxel", "docetaxel", "doxorubicin", "cyclophosphamide",
	"metformin", "insulin", "lisinopril", "atorvastatin", "aspirin",
	"warfarin", "prednisone", "methotrexate", "adalimumab", "infliximab",
}

var procedureVocabulary = []string{
	"biopsy", "mastectomy", "lumpectomy", "chemotherapy", "radiotherapy",
	"radiation therapy", "immunotherapy", "surgery", "transplant",
	"dialysis", "colonoscopy", "endoscopy", "angioplasty", "bypass",
}

var labValueVocabulary = []string{
	"hemoglobin", "hba1c", "creatinine", "bilirubin", "platelet count",
	"white blood cell count", "neutrophil count", "psa", "cea", "ca-125",
	"egfr", "alt", "ast", "troponin",
}
