package trust

// Inputs are the profile facts the trust score is derived from
type Inputs struct {
	PANVerified           bool
	FamilyVerified        bool
	ProfileCompleteness   int
	ApprovedContributions int
	VerificationLevel     int
	RiskScore             int
}

// Calculate derives the trust score from its inputs. Deterministic and free
// of clock or storage access.
//
//	+20 PAN verified
//	+20 family verified
//	+20 profile fully complete
//	+10 per approved contribution, capped at 20
//	 +2 per verification level, capped at 10
//	 -30 percent of risk score, capped at 30
//
// The result is clamped to [0, 100].
func Calculate(in Inputs) int {
	score := 0
	if in.PANVerified {
		score += 20
	}
	if in.FamilyVerified {
		score += 20
	}
	if in.ProfileCompleteness == 100 {
		score += 20
	}

	contrib := in.ApprovedContributions * 10
	if contrib > 20 {
		contrib = 20
	}
	score += contrib

	level := in.VerificationLevel * 2
	if level > 10 {
		level = 10
	}
	score += level

	penalty := in.RiskScore * 30 / 100
	if penalty > 30 {
		penalty = 30
	}
	score -= penalty

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
