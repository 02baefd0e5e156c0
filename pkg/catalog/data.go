package catalog

var entries = map[WorkflowID]entry{
	JobApplicationPipeline: {
		def: Definition{
			ID:          JobApplicationPipeline,
			Name:        "Job Application Pipeline",
			Description: "Go from a polished resume to submitted, tracked applications and follow-ups.",
			Category:    CategoryCareerHub,
		},
		steps: []StepTemplate{
			{ID: "create-resume", Name: "Create a tailored resume", Feature: "Resume Builder", Path: "/editor"},
			{ID: "write-cover-letter", Name: "Write a cover letter", Feature: "Cover Letter Builder", Path: "/cover-letter"},
			{ID: "find-jobs", Name: "Find matching jobs", Feature: "Job Search", Path: "/jobs/search"},
			{ID: "track-applications", Name: "Track your applications", Feature: "Job Tracker", Path: "/jobs/tracker"},
			{ID: "analyze-match", Name: "Analyze your job match", Feature: "Match Analyzer", Path: "/jobs/match"},
			{ID: "submit-applications", Name: "Submit applications", Feature: "Job Tracker", Path: "/jobs/tracker?view=applied"},
			{ID: "follow-up", Name: "Follow up with employers", Feature: "Job Tracker", Path: "/jobs/tracker?view=follow-up"},
		},
		profile: Profile{
			Tags:             []string{"jobs", "applications", "beginner"},
			EstimatedTime:    "1-2 weeks",
			BeginnerFriendly: true,
			Metrics:          MetricsJobApplications,
			Boost: func(s Signals) int {
				bonus := 0
				if s.Documents == 0 {
					bonus += 25
				}
				if s.Applications == 0 {
					bonus += 15
				}
				return bonus
			},
		},
	},
	InterviewPrep: {
		def: Definition{
			ID:          InterviewPrep,
			Name:        "Interview Preparation",
			Description: "Research the company, rehearse answers and run mock interviews before the real one.",
			Category:    CategoryCareerHub,
		},
		steps: []StepTemplate{
			{ID: "research-company", Name: "Research the company", Feature: "Company Insights", Path: "/career/companies"},
			{ID: "review-questions", Name: "Review common questions", Feature: "Interview Coach", Path: "/career/interview/questions"},
			{ID: "practice-session", Name: "Run a practice session", Feature: "Interview Coach", Path: "/career/interview/practice"},
			{ID: "mock-interview", Name: "Complete a mock interview", Feature: "Interview Coach", Path: "/career/interview/mock"},
			{ID: "prepare-questions", Name: "Prepare questions for the interviewer", Feature: "Interview Coach", Path: "/career/interview/ask"},
		},
		profile: Profile{
			Prerequisites: Prerequisites{MinApplications: 1},
			Dependencies:  []WorkflowID{JobApplicationPipeline},
			Tags:          []string{"interviews", "practice"},
			EstimatedTime: "3-5 days",
			Metrics:       MetricsInterviewPrep,
			Boost: func(s Signals) int {
				if s.Applications >= 3 {
					return 20
				}
				return 0
			},
		},
	},
	MarketIntelligence: {
		def: Definition{
			ID:          MarketIntelligence,
			Name:        "Market Intelligence",
			Description: "Understand salaries, trends and target companies in your field.",
			Category:    CategoryCareerHub,
		},
		steps: []StepTemplate{
			{ID: "salary-research", Name: "Research salary ranges", Feature: "Salary Insights", Path: "/career/salary"},
			{ID: "industry-trends", Name: "Review industry trends", Feature: "Market Trends", Path: "/career/trends"},
			{ID: "company-watchlist", Name: "Build a company watchlist", Feature: "Company Insights", Path: "/career/companies?view=watchlist"},
			{ID: "market-report", Name: "Generate a market report", Feature: "Market Trends", Path: "/career/trends/report"},
		},
		profile: Profile{
			Tags:             []string{"research", "salary", "market"},
			EstimatedTime:    "2-3 days",
			BeginnerFriendly: true,
			EasyRestart:      true,
			Metrics:          MetricsMarketIntelligence,
			Boost: func(s Signals) int {
				if s.Applications >= 1 {
					return 5
				}
				return 0
			},
		},
	},
	SkillDevelopment: {
		def: Definition{
			ID:          SkillDevelopment,
			Name:        "Skill Development",
			Description: "Find your skill gaps, set learning goals and earn credentials that close them.",
			Category:    CategoryUpskilling,
		},
		steps: []StepTemplate{
			{ID: "skill-gap-analysis", Name: "Analyze your skill gaps", Feature: "Skill Analyzer", Path: "/upskilling/gaps"},
			{ID: "set-learning-goals", Name: "Set learning goals", Feature: "Learning Planner", Path: "/upskilling/goals"},
			{ID: "build-watchlist", Name: "Build a skill watchlist", Feature: "Skill Watchlist", Path: "/upskilling/watchlist"},
			{ID: "complete-course", Name: "Complete a course", Feature: "Learning Planner", Path: "/upskilling/courses"},
			{ID: "add-certification", Name: "Add a certification to your resume", Feature: "Resume Builder", Path: "/editor?section=certifications"},
		},
		profile: Profile{
			Tags:             []string{"skills", "learning", "certifications"},
			EstimatedTime:    "2-4 weeks",
			BeginnerFriendly: true,
			EasyRestart:      true,
			Metrics:          MetricsSkillDevelopment,
			Boost: func(s Signals) int {
				if s.Applications >= 5 && s.BrandScore == nil {
					return 5
				}
				return 0
			},
		},
	},
	ImprovementLoop: {
		def: Definition{
			ID:          ImprovementLoop,
			Name:        "Continuous Improvement Loop",
			Description: "Use application feedback to refine your resume and raise your match scores.",
			Category:    CategoryUpskilling,
		},
		steps: []StepTemplate{
			{ID: "review-feedback", Name: "Review application feedback", Feature: "Job Tracker", Path: "/jobs/tracker?view=feedback"},
			{ID: "refine-resume", Name: "Refine your resume", Feature: "Resume Builder", Path: "/editor"},
			{ID: "reanalyze-match", Name: "Re-run the match analysis", Feature: "Match Analyzer", Path: "/jobs/match"},
			{ID: "iterate", Name: "Record what changed", Feature: "Career Journal", Path: "/career/journal"},
		},
		profile: Profile{
			Prerequisites: Prerequisites{MinDocuments: 1, MinApplications: 3},
			Dependencies:  []WorkflowID{JobApplicationPipeline},
			Tags:          []string{"feedback", "iteration"},
			EstimatedTime: "1 week",
			Metrics:       MetricsImprovementLoop,
			Boost: func(s Signals) int {
				if s.Applications >= 10 {
					return 15
				}
				return 0
			},
		},
	},
	BrandBuilding: {
		def: Definition{
			ID:          BrandBuilding,
			Name:        "Personal Brand Building",
			Description: "Audit and grow your professional presence across profiles, portfolio and content.",
			Category:    CategoryBrandBuilding,
		},
		steps: []StepTemplate{
			{ID: "brand-audit", Name: "Run a brand audit", Feature: "Brand Audit", Path: "/brand/audit"},
			{ID: "optimize-linkedin", Name: "Optimize your LinkedIn profile", Feature: "Profile Optimizer", Path: "/brand/linkedin"},
			{ID: "build-portfolio", Name: "Build your portfolio", Feature: "Portfolio Builder", Path: "/brand/portfolio"},
			{ID: "create-content", Name: "Publish professional content", Feature: "Content Studio", Path: "/brand/content"},
			{ID: "grow-network", Name: "Grow your network", Feature: "Networking", Path: "/brand/network"},
			{ID: "reaudit", Name: "Re-run the brand audit", Feature: "Brand Audit", Path: "/brand/audit?rerun=1"},
		},
		profile: Profile{
			Prerequisites: Prerequisites{MinDocuments: 1, MinBrandScore: 40},
			Tags:          []string{"brand", "visibility", "networking"},
			EstimatedTime: "2-3 weeks",
			Metrics:       MetricsBrandBuilding,
			Boost: func(s Signals) int {
				switch {
				case s.BrandScore == nil && s.Documents >= 1:
					return 10
				case s.BrandScore != nil && *s.BrandScore < 50:
					return 15
				}
				return 0
			},
		},
	},
	DocumentConsistency: {
		def: Definition{
			ID:          DocumentConsistency,
			Name:        "Document Consistency Check",
			Description: "Keep your resume, cover letters and profiles telling the same story.",
			Category:    CategoryDocuments,
		},
		steps: []StepTemplate{
			{ID: "review-resume", Name: "Review your resume", Feature: "Resume Builder", Path: "/editor"},
			{ID: "align-cover-letter", Name: "Align your cover letters", Feature: "Cover Letter Builder", Path: "/cover-letter"},
			{ID: "sync-profiles", Name: "Sync your online profiles", Feature: "Profile Optimizer", Path: "/brand/linkedin"},
			{ID: "export-documents", Name: "Export your documents", Feature: "Document Export", Path: "/documents/export"},
		},
		profile: Profile{
			Prerequisites: Prerequisites{MinDocuments: 1},
			Tags:          []string{"documents", "consistency", "quick-win"},
			EstimatedTime: "1-2 hours",
			EasyRestart:   true,
			Metrics:       MetricsNone,
			Boost: func(s Signals) int {
				bonus := 0
				if s.Documents >= 2 {
					bonus += 20
				}
				if s.CoverLetters >= 1 {
					bonus += 10
				}
				return bonus
			},
		},
	},
}
