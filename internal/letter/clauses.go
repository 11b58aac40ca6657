package letter

// Clause templates in the order they are printed. Placeholders are
// {company}, {position}, {start_date}, {location} and {salary}.
var annexureClauses = []string{
	"You will be working with {company} as a {position}. You would be responsible for aspects related to conducting market research to identify trends and AI use cases, support the sales team by qualifying leads, preparing tailored presentations, and building strong customer relationships. Additionally, you will be playing an important role in realizing the design, planning, development, and deployment platforms/solutions. Further, it may also require you to do various roles and go that extra mile in the best interest of the product.",
	"Your date of joining is {start_date}. During your employment, we expected to devote your time and efforts solely to {company} work. You are also required to let your mentor know about forthcoming events (if there are any) in advance so that your work can be planned accordingly.",
	"You will be working onsite in our {location} office on all working days. There will be catch ups scheduled with your mentor to discuss work progress and overall work experience at regular intervals.",
	"All the work that you will produce at or in relation to {company} will be the intellectual property of {company}. You are not allowed to store, copy, sell, share, and distribute it to a third party under any circumstances. Similarly, you are expected to refrain from talking about your work in public domains (both online such as blogging, social networking sites and offline among your friends, college etc.) without prior discussion and approval with your mentor.",
	"We take data privacy and security very seriously and to maintain confidentiality of any students, customers, clients, and companies' data and contact details that you may get access to during your engagement will be your responsibility. {company} operates on zero tolerance principle with regards to any breach of data security guidelines. At the completion of the engagement, you are expected to hand over all {company} work/data stored on your Personal Computer to your mentor and delete the same from your machine.",
	"Under normal circumstances either the company or you may terminate this association by providing a notice of 30 days without assigning any reason. However, the company may terminate this agreement forthwith under situations of in-disciplinary behaviors.",
	"During the appointment period you shall not engage yourselves directly or indirectly or in any capacity in any other organization (other than your college).",
}

var extraClauses = []string{
	"You are expected to conduct yourself with utmost professionalism in dealing with your mentor, team members, colleagues, clients and customers and treat everyone with due respect.",
	"{company} is a start-up and we love people who like to go beyond the normal call of duty and can think out of the box. Surprise us with your passion, intelligence, creativity, and hard work – and expect appreciation & rewards to follow.",
	"Expect constant and continuous objective feedback from your mentor and other team members and we encourage you to ask for and provide feedback at every possible opportunity. It is your right to receive and give feedback – this is the ONLY way we all can continuously push ourselves to do better.",
	"Have fun at what you do and do the right thing – both the principles are core of what {company} stands for and we expect you to imbibe them in your day to day actions and continuously challenge us if we are falling short of expectations on either of them.",
	"You will be provided INR {salary} /- per month as a salary. Post three months you will be considered for ESOPs. ESOPs are based on a four-year vesting schedule with a one-year cliff.",
}

// clausesOnAnnexurePage is how many annexure clauses fit under the preamble.
const clausesOnAnnexurePage = 4

const (
	titleTemplate    = "Offer letter with {company}"
	welcomeTemplate  = "I am delighted & excited to welcome you to {company} as a {position}. At {company}, we believe that our team is our biggest strength and we are looking forward to strengthening it further with your addition. We are confident that you would play a significant role in the overall success of the community that we envision to build and wish you the most enjoyable, learning packed and truly meaningful experience with {company}."
	annexureRef      = "Your appointment will be governed by the terms and conditions presented in Annexure A."
	closingText      = "We look forward to you joining us. Please do not hesitate to call us for any information you may need. Also, please sign the duplicate of this offer as your acceptance and forward the same to us."
	preambleTemplate = "You shall be governed by the following terms and conditions of service during your engagement with {company}, and those may be amended from time to time."
	acceptanceText   = "I have negotiated, agreed, read and understood all the terms and conditions of this engagement letter as well as Annexure hereto and affix my signature in complete acceptance of the terms of the letter."
)

// ClauseCount is the number of numbered clauses in every letter.
func ClauseCount() int { return len(annexureClauses) + len(extraClauses) }
