package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medmatch/matching-core/internal/orchestrator"
)

func (s *Server) handleHealth(c *gin.Context) {
	report, _ := s.orchestrator.Health(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"status":               "healthy",
		"index_size":           report.IndexSize,
		"registry_configured":  report.RegistryConfigured,
		"reasoning_configured": report.ReasoningConfigured,
	})
}

// handleMatch handles POST /v1/match (spec.md §6).
func (s *Server) handleMatch(c *gin.Context) {
	var req matchRequestWire
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	enableAdvancedReasoning := true
	if req.EnableAdvancedReasoning != nil {
		enableAdvancedReasoning = *req.EnableAdvancedReasoning
	}

	if err := req.PatientData.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp := s.orchestrator.Match(c.Request.Context(), orchestrator.Request{
		Patient:                 req.PatientData,
		MaxResults:              req.MaxResults,
		MinConfidence:           req.MinConfidence,
		EnableAdvancedReasoning: enableAdvancedReasoning,
	})

	c.JSON(http.StatusOK, toWireResponse(resp))
}

func toWireResponse(resp orchestrator.Response) matchResponseWire {
	matches := make([]matchWire, len(resp.Matches))
	for i, m := range resp.Matches {
		matches[i] = matchWire{
			ID:              m.ID,
			NCTID:           m.NCTID,
			Title:           m.Title,
			MatchScore:      m.MatchScore,
			ConfidenceScore: m.ConfidenceScore,
			Location: locationWire{
				Facility: m.Location.Facility,
				City:     m.Location.City,
				State:    m.Location.State,
				Country:  m.Location.Country,
				Distance: m.Location.Distance,
			},
			Explanation: m.Explanation,
			Contact: contactWire{
				Name:  m.Contact.Name,
				Phone: m.Contact.Phone,
				Email: m.Contact.Email,
			},
			Eligibility: m.Eligibility,
			Phase:       m.Phase,
			Status:      m.Status,
			Conditions:  m.Conditions,
			Reasoning: reasoningWire{
				ChainOfThought:        m.Reasoning.ChainOfThought,
				MedicalAnalysis:       m.Reasoning.MedicalAnalysis,
				EligibilityAssessment: m.Reasoning.EligibilityAssessment,
				ContraindicationCheck: m.Reasoning.ContraindicationCheck,
				ConfidenceFactors:     m.Reasoning.ConfidenceFactors,
				ExcludedFactors:       m.Reasoning.ExcludedFactors,
			},
		}
	}

	wire := matchResponseWire{
		RequestID:        resp.RequestID,
		PatientID:        resp.PatientID,
		Matches:          matches,
		ProcessingTimeMs: resp.ProcessingTimeMs,
		Timestamp:        resp.Timestamp,
		ExtractedEntities: extractedEntitiesWire{
			Conditions: resp.ExtractedEntities.Conditions,
			Stage:      resp.ExtractedEntities.Stage,
			Biomarkers: resp.ExtractedEntities.Biomarkers,
			Location:   resp.ExtractedEntities.Location,
		},
		ProcessingMetadata: processingMetadataWire{
			DataSource:       resp.ProcessingMetadata.DataSource,
			ReasoningEnabled: resp.ProcessingMetadata.ReasoningEnabled,
			ModelUsed:        resp.ProcessingMetadata.ModelUsed,
			InferenceTimeMs:  resp.ProcessingMetadata.InferenceTimeMs,
			RealTrials:       resp.ProcessingMetadata.RealTrials,
			FallbackReason:   resp.ProcessingMetadata.FallbackReason,
		},
		Message: resp.Message,
	}
	if resp.LLMFeatures != nil {
		wire.LLMFeatures = &llmFeaturesWire{
			ModelVersion:   resp.LLMFeatures.ModelVersion,
			ReasoningDepth: resp.LLMFeatures.ReasoningDepth,
		}
	}
	return wire
}
