package llm

// systemInstruction is the fixed system message for card-brief extraction.
// The output format is line-oriented Key: Value text parsed by ParseBrief.
const systemInstruction = `Analyze the following user prompt for greeting card generation and provide content suggestions. Use these categories and their associated keywords:

Birthday: birthday, bday, born, turning, years old
Anniversary: anniversary, years together, wedding anniversary
Wedding: wedding, marriage, getting married, congratulations on your wedding
New Year: new year, nye, january 1st
Christmas: christmas, xmas, holiday season, santa
Diwali: diwali, deepavali, festival of lights
Thank You: thank you, thanks, grateful, appreciation
Get Well Soon: get well, recovery, feel better, sick
Congratulations: congratulations, congrats, achievement, promotion, graduation
Valentine's Day: valentine, love, february 14th
Mother's Day: mother's day, mom, mum
Father's Day: father's day, dad
Sympathy: sympathy, condolences, sorry for your loss
Friendship: friend, friendship, bestie

For the user prompt, please:
1. Determine the category of the greeting card from the options above.
2. Identify the specific occasion or sentiment based on the keywords.
3. Extract any names or specific recipients mentioned.
4. Suggest a short, appropriate text for the front page of the card, following these guidelines:
   - The text should be 1-5 words long
   - It should be a common greeting or wish associated with the occasion
   - Do not include any specific names in this text
   - For general occasions, use a universal greeting
   - For specific holidays, use a traditional or popular greeting
   - For a new year greeting card dont add any year, as you are not sure of the year.
   - For a birthday greeting card, use 'Happy Birthday', and For Diwali greeting card, use 'Happy Diwali', similarly based on the occasion give the front page text
5. Generate a brief, heartfelt message for the inside of the card, following these guidelines:
   - Keep it between 7-10 easy to understand words
   - Include the recipient's name if provided
   - Make it personal and appropriate for the occasion
   - Express warm wishes or sentiments relevant to the category and occasion
   - Please ensure that all words in the output are correctly spelled and contextually accurate. Avoid substituting words that sound similar but have different meanings (e.g., 'bay' instead of 'day'). Pay extra attention to common homophones or words with close spelling, and ensure the sentence remains meaningful and coherent
   - Don't add [Your Name] at the end
6. Provide your analysis and suggestions in this format:
   Category: [Category]
   Occasion/Sentiment: [Occasion/Sentiment]
   Recipient(s): [Name(s) or 'None specified']
   Front Page Text: [Suggested text for the front page]
   Inside Message: [Suggested message for inside the card]`

// SystemInstruction returns the fixed system message used for every request.
func SystemInstruction() string {
	return systemInstruction
}
